package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// GroupMemberRepository 小组成员数据访问接口
type GroupMemberRepository interface {
	Create(ctx context.Context, member *model.GroupMember) error
	Get(ctx context.Context, groupUID, userUID int64) (*model.GroupMember, error)
	CountByGroup(ctx context.Context, groupUID int64) (int64, error)
	// ListByGroup 按加入顺序返回成员（含用户信息）
	ListByGroup(ctx context.Context, groupUID int64) ([]model.GroupMember, error)
	ListByUser(ctx context.Context, userUID int64) ([]model.GroupMember, error)
	Delete(ctx context.Context, uid int64) error
}

type groupMemberRepo struct {
	db *gorm.DB
}

// NewGroupMemberRepo 创建 GroupMemberRepository 实例
func NewGroupMemberRepo(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepo{db: db}
}

func (r *groupMemberRepo) Create(ctx context.Context, member *model.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *groupMemberRepo) Get(ctx context.Context, groupUID, userUID int64) (*model.GroupMember, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_uid = ? AND user_uid = ?", groupUID, userUID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *groupMemberRepo) CountByGroup(ctx context.Context, groupUID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_uid = ?", groupUID).
		Count(&count).Error
	return count, err
}

func (r *groupMemberRepo) ListByGroup(ctx context.Context, groupUID int64) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_uid = ?", groupUID).
		Order("created_at ASC").Order("uid ASC").
		Find(&members).Error
	return members, err
}

func (r *groupMemberRepo) ListByUser(ctx context.Context, userUID int64) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("uid ASC").
		Find(&members).Error
	return members, err
}

func (r *groupMemberRepo) Delete(ctx context.Context, uid int64) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.GroupMember{}).Error
}
