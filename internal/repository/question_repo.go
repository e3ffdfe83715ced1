package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// QuestionRepository 问题数据访问接口
type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	// GetByID 含提问者与回答列表
	GetByID(ctx context.Context, uid int64) (*model.Question, error)
	ListByGroup(ctx context.Context, groupUID int64) ([]model.Question, error)
	ListUIDsByGroupAndUser(ctx context.Context, groupUID, userUID int64) ([]int64, error)
	UpdateAnswerStatus(ctx context.Context, uid int64, status string) error
	DeleteByUIDs(ctx context.Context, uids []int64) error
}

type questionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo 创建 QuestionRepository 实例
func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) Create(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *questionRepo) GetByID(ctx context.Context, uid int64) (*model.Question, error) {
	var q model.Question
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("uid ASC") }).
		Preload("Answers.User").
		Where("uid = ?", uid).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) ListByGroup(ctx context.Context, groupUID int64) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_uid = ?", groupUID).
		Order("created_at DESC").Order("uid DESC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepo) ListUIDsByGroupAndUser(ctx context.Context, groupUID, userUID int64) ([]int64, error) {
	var uids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("group_uid = ? AND user_uid = ?", groupUID, userUID).
		Pluck("uid", &uids).Error
	return uids, err
}

func (r *questionRepo) UpdateAnswerStatus(ctx context.Context, uid int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("uid = ?", uid).
		Update("answer_status", status).Error
}

func (r *questionRepo) DeleteByUIDs(ctx context.Context, uids []int64) error {
	if len(uids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("uid IN ?", uids).Delete(&model.Question{}).Error
}
