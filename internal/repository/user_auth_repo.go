package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// UserAuthRepository 登录会话数据访问接口
type UserAuthRepository interface {
	Create(ctx context.Context, auth *model.UserAuth) error
	GetByID(ctx context.Context, uid int64) (*model.UserAuth, error)
	Update(ctx context.Context, auth *model.UserAuth) error
	Delete(ctx context.Context, uid int64) error
}

type userAuthRepo struct {
	db *gorm.DB
}

// NewUserAuthRepo 创建 UserAuthRepository 实例
func NewUserAuthRepo(db *gorm.DB) UserAuthRepository {
	return &userAuthRepo{db: db}
}

func (r *userAuthRepo) Create(ctx context.Context, auth *model.UserAuth) error {
	return r.db.WithContext(ctx).Create(auth).Error
}

func (r *userAuthRepo) GetByID(ctx context.Context, uid int64) (*model.UserAuth, error) {
	var auth model.UserAuth
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&auth).Error; err != nil {
		return nil, err
	}
	return &auth, nil
}

func (r *userAuthRepo) Update(ctx context.Context, auth *model.UserAuth) error {
	return r.db.WithContext(ctx).Save(auth).Error
}

func (r *userAuthRepo) Delete(ctx context.Context, uid int64) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.UserAuth{}).Error
}
