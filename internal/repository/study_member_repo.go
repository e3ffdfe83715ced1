package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// StudyMemberRepository 学习记录数据访问接口
type StudyMemberRepository interface {
	Create(ctx context.Context, sm *model.StudyMember) error
	GetByID(ctx context.Context, uid int64) (*model.StudyMember, error)
	UpdateStatus(ctx context.Context, uid int64, status string, studyTime int64) error
	ListByGroup(ctx context.Context, groupUID int64) ([]model.StudyMember, error)
	DeleteByGroupMember(ctx context.Context, groupMemberUID int64) error
}

type studyMemberRepo struct {
	db *gorm.DB
}

// NewStudyMemberRepo 创建 StudyMemberRepository 实例
func NewStudyMemberRepo(db *gorm.DB) StudyMemberRepository {
	return &studyMemberRepo{db: db}
}

func (r *studyMemberRepo) Create(ctx context.Context, sm *model.StudyMember) error {
	return r.db.WithContext(ctx).Create(sm).Error
}

func (r *studyMemberRepo) GetByID(ctx context.Context, uid int64) (*model.StudyMember, error) {
	var sm model.StudyMember
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&sm).Error; err != nil {
		return nil, err
	}
	return &sm, nil
}

func (r *studyMemberRepo) UpdateStatus(ctx context.Context, uid int64, status string, studyTime int64) error {
	return r.db.WithContext(ctx).
		Model(&model.StudyMember{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"study_status": status,
			"study_time":   studyTime,
		}).Error
}

func (r *studyMemberRepo) ListByGroup(ctx context.Context, groupUID int64) ([]model.StudyMember, error) {
	var rows []model.StudyMember
	err := r.db.WithContext(ctx).
		Where("group_uid = ?", groupUID).
		Order("updated_at ASC").Order("uid ASC").
		Find(&rows).Error
	return rows, err
}

func (r *studyMemberRepo) DeleteByGroupMember(ctx context.Context, groupMemberUID int64) error {
	return r.db.WithContext(ctx).
		Where("group_member_uid = ?", groupMemberUID).
		Delete(&model.StudyMember{}).Error
}
