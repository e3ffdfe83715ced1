package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
)

// ── 跨模块业务错误 ──

var (
	ErrLoginRequired = pkgerrors.Unauthorized("auth", "login required")
	ErrVerifyEmail   = pkgerrors.Forbidden("auth", "verify email")
	ErrUserNotFound  = pkgerrors.NotFound("userUID", "user not found")
	ErrGroupNotFound = pkgerrors.NotFound("groupUID", "group not found")
	ErrNotMember     = pkgerrors.Forbidden("groupUID", "not a member")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// storageFailure 业务错误原样返回，其余错误记日志后包装为 Transient
func storageFailure(logger *zap.Logger, err error, msg string, fields ...zap.Field) error {
	if e, ok := pkgerrors.As(err); ok {
		if e.Kind == pkgerrors.KindTransient {
			logger.Error(msg, append(fields, zap.Error(err))...)
		}
		return err
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
	return pkgerrors.Transient("storage unavailable", err)
}
