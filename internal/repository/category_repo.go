package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	CountByUIDs(ctx context.Context, uids []int64) (int64, error)
	ListByGroup(ctx context.Context, groupUID int64) ([]model.Category, error)
	ListByUser(ctx context.Context, userUID int64) ([]model.Category, error)
	AddGroupCategories(ctx context.Context, groupUID int64, categoryUIDs []int64) error
	// ReplaceUserCategories 先删后插，需在事务内调用
	ReplaceUserCategories(ctx context.Context, userUID int64, categoryUIDs []int64) error
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("uid ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) CountByUIDs(ctx context.Context, uids []int64) (int64, error) {
	if len(uids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("uid IN ?", uids).
		Count(&count).Error
	return count, err
}

func (r *categoryRepo) ListByGroup(ctx context.Context, groupUID int64) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN group_categories gc ON gc.category_uid = categories.uid").
		Where("gc.group_uid = ?", groupUID).
		Order("categories.uid ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) ListByUser(ctx context.Context, userUID int64) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN user_categories uc ON uc.category_uid = categories.uid").
		Where("uc.user_uid = ?", userUID).
		Order("categories.uid ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) AddGroupCategories(ctx context.Context, groupUID int64, categoryUIDs []int64) error {
	if len(categoryUIDs) == 0 {
		return nil
	}
	rows := make([]model.GroupCategory, 0, len(categoryUIDs))
	for _, uid := range categoryUIDs {
		rows = append(rows, model.GroupCategory{GroupUID: groupUID, CategoryUID: uid})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *categoryRepo) ReplaceUserCategories(ctx context.Context, userUID int64, categoryUIDs []int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Delete(&model.UserCategory{}).Error; err != nil {
		return err
	}
	if len(categoryUIDs) == 0 {
		return nil
	}
	rows := make([]model.UserCategory, 0, len(categoryUIDs))
	for _, uid := range categoryUIDs {
		rows = append(rows, model.UserCategory{UserUID: userUID, CategoryUID: uid})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
