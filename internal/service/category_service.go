package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
)

// CategoryService 分类与用户关注分类业务接口
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	ListMine(ctx context.Context, userUID int64) ([]dto.CategoryResponse, error)
	ReplaceMine(ctx context.Context, userUID int64, categoryUIDs []int64) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		return nil, storageFailure(s.logger, err, "列出分类失败")
	}
	return toCategoryResponses(categories), nil
}

func (s *categoryService) ListMine(ctx context.Context, userUID int64) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.ListByUser(ctx, userUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询用户分类失败", zap.Int64("userUID", userUID))
	}
	return toCategoryResponses(categories), nil
}

// ReplaceMine 删除旧关注分类并写入新分类，在同一事务内完成
func (s *categoryService) ReplaceMine(ctx context.Context, userUID int64, categoryUIDs []int64) ([]dto.CategoryResponse, error) {
	uids := uniqueInt64(categoryUIDs)
	if len(uids) > 0 {
		n, err := s.repo.Category.CountByUIDs(ctx, uids)
		if err != nil {
			return nil, storageFailure(s.logger, err, "查询分类失败")
		}
		if n != int64(len(uids)) {
			return nil, ErrUnknownCategory
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, storageFailure(s.logger, err, "开启事务失败")
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)
	if err := txRepo.Category.ReplaceUserCategories(ctx, userUID, uids); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, storageFailure(s.logger, err, "替换用户分类失败", zap.Int64("userUID", userUID))
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, storageFailure(s.logger, err, "提交事务失败")
		}
	}

	return s.ListMine(ctx, userUID)
}

func toCategoryResponses(categories []model.Category) []dto.CategoryResponse {
	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, dto.CategoryResponse{CategoryUID: c.UID, Name: c.Name})
	}
	return result
}
