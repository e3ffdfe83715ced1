package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// 排序方式
const (
	AlignRandom = "random"
	AlignLatest = "latest"
	AlignExpire = "expire"
)

// StudyGroupFilter 小组搜索条件
type StudyGroupFilter struct {
	CategoryUIDs []int64
	Word         string // 匹配 code 子串或 name 前缀
	IsCam        *bool
	Align        string
	Limit        int
}

// StudyGroupRepository 学习小组数据访问接口
type StudyGroupRepository interface {
	Create(ctx context.Context, group *model.StudyGroup) error
	GetByID(ctx context.Context, uid int64) (*model.StudyGroup, error)
	// GetByIDForUpdate 行级锁查询，必须在事务内调用
	GetByIDForUpdate(ctx context.Context, uid int64) (*model.StudyGroup, error)
	GetByCode(ctx context.Context, code string) (*model.StudyGroup, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Search(ctx context.Context, f StudyGroupFilter) ([]model.StudyGroup, error)
	// ListRecommended 返回指定分类下、用户尚未加入且未到期的小组
	ListRecommended(ctx context.Context, categoryUIDs []int64, userUID, excludeGroupUID int64, limit int) ([]model.StudyGroup, error)
	// SumMinStudyHourByUser 用户已加入小组的每日最少学习小时之和
	SumMinStudyHourByUser(ctx context.Context, userUID int64) (int, error)
}

type studyGroupRepo struct {
	db *gorm.DB
}

// NewStudyGroupRepo 创建 StudyGroupRepository 实例
func NewStudyGroupRepo(db *gorm.DB) StudyGroupRepository {
	return &studyGroupRepo{db: db}
}

func (r *studyGroupRepo) Create(ctx context.Context, group *model.StudyGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *studyGroupRepo) GetByID(ctx context.Context, uid int64) (*model.StudyGroup, error) {
	var group model.StudyGroup
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *studyGroupRepo) GetByIDForUpdate(ctx context.Context, uid int64) (*model.StudyGroup, error) {
	var group model.StudyGroup
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uid = ?", uid).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *studyGroupRepo) GetByCode(ctx context.Context, code string) (*model.StudyGroup, error) {
	var group model.StudyGroup
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *studyGroupRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudyGroup{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *studyGroupRepo) Search(ctx context.Context, f StudyGroupFilter) ([]model.StudyGroup, error) {
	q := r.db.WithContext(ctx).Model(&model.StudyGroup{})

	if len(f.CategoryUIDs) > 0 {
		sub := r.db.Model(&model.GroupCategory{}).
			Select("group_uid").
			Where("category_uid IN ?", f.CategoryUIDs)
		q = q.Where("uid IN (?)", sub)
	}
	if f.Word != "" {
		q = q.Where(
			r.db.Where("code LIKE ?", "%"+f.Word+"%").
				Or("name LIKE ?", f.Word+"%"),
		)
	}
	if f.IsCam != nil {
		q = q.Where("is_cam = ?", *f.IsCam)
	}

	q = orderByAlign(q, f.Align)

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var groups []model.StudyGroup
	err := q.Limit(limit).Find(&groups).Error
	return groups, err
}

func (r *studyGroupRepo) ListRecommended(ctx context.Context, categoryUIDs []int64, userUID, excludeGroupUID int64, limit int) ([]model.StudyGroup, error) {
	if len(categoryUIDs) == 0 {
		return []model.StudyGroup{}, nil
	}

	inCategory := r.db.Model(&model.GroupCategory{}).
		Select("group_uid").
		Where("category_uid IN ?", categoryUIDs)
	joined := r.db.Model(&model.GroupMember{}).
		Select("group_uid").
		Where("user_uid = ?", userUID)

	q := r.db.WithContext(ctx).
		Model(&model.StudyGroup{}).
		Where("uid IN (?)", inCategory).
		Where("uid NOT IN (?)", joined).
		Where("expired_at > ?", time.Now())
	if excludeGroupUID > 0 {
		q = q.Where("uid <> ?", excludeGroupUID)
	}
	if limit <= 0 {
		limit = 20
	}

	var groups []model.StudyGroup
	err := orderByAlign(q, AlignRandom).Limit(limit).Find(&groups).Error
	return groups, err
}

func (r *studyGroupRepo) SumMinStudyHourByUser(ctx context.Context, userUID int64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&model.StudyGroup{}).
		Select("COALESCE(SUM(study_groups.min_study_hour), 0)").
		Joins("JOIN group_members gm ON gm.group_uid = study_groups.uid").
		Where("gm.user_uid = ?", userUID).
		Scan(&total).Error
	return total, err
}

func orderByAlign(q *gorm.DB, align string) *gorm.DB {
	switch align {
	case AlignLatest:
		return q.Order("created_at DESC").Order("uid DESC")
	case AlignExpire:
		return q.Order("expired_at ASC").Order("uid ASC")
	default:
		return q.Order("RANDOM()")
	}
}
