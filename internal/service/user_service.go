package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
)

// UserService 用户资料业务接口
type UserService interface {
	GetProfile(ctx context.Context, userUID int64) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────── GetProfile ──────────────

func (s *userService) GetProfile(ctx context.Context, userUID int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(s.logger, err, "查询用户失败", zap.Int64("userUID", userUID))
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		UserUID:  u.UID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Level:    u.Level,
		ImgPath:  u.ImgPath,
	}
}
