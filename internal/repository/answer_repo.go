package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// AnswerRepository 回答数据访问接口
type AnswerRepository interface {
	Create(ctx context.Context, a *model.Answer) error
	DeleteByQuestionUIDs(ctx context.Context, questionUIDs []int64) error
	// DeleteByUserInGroup 删除用户在该小组所有问题下的回答
	DeleteByUserInGroup(ctx context.Context, userUID, groupUID int64) error
}

type answerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo 创建 AnswerRepository 实例
func NewAnswerRepo(db *gorm.DB) AnswerRepository {
	return &answerRepo{db: db}
}

func (r *answerRepo) Create(ctx context.Context, a *model.Answer) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *answerRepo) DeleteByQuestionUIDs(ctx context.Context, questionUIDs []int64) error {
	if len(questionUIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("question_uid IN ?", questionUIDs).
		Delete(&model.Answer{}).Error
}

func (r *answerRepo) DeleteByUserInGroup(ctx context.Context, userUID, groupUID int64) error {
	inGroup := r.db.Model(&model.Question{}).Select("uid").Where("group_uid = ?", groupUID)
	return r.db.WithContext(ctx).
		Where("user_uid = ? AND question_uid IN (?)", userUID, inGroup).
		Delete(&model.Answer{}).Error
}
