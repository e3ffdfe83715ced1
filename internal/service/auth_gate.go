package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/repository"
	"github.com/jhappydev/gongsa-server/pkg/jwt"
)

// Identity 通过认证的调用方
type Identity struct {
	UserUID     int64
	UserAuthUID int64
	TokenID     string    // Access Token 的 jti
	ExpiresAt   time.Time // Access Token 过期时间
	Expired     bool      // 仅刷新接口会放行已过期的 Token
}

// TokenBlacklist 已注销 Token 的存储（Redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthGate 每个受保护请求的认证入口
//
// 判定顺序：
//  1. 无 Token → Unauthorized
//  2. 签名无效、格式错误、类型不是 access → Unauthorized
//  3. 已过期：刷新接口放行（签名仍需有效），其余 Unauthorized
//  4. jti 已注销 → Unauthorized
//  5. 用户不存在 → Unauthorized；邮箱未验证 → Forbidden
type AuthGate interface {
	Authenticate(ctx context.Context, authorization string, refreshRequest bool) (*Identity, error)
}

type authGate struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthGate 创建 AuthGate 实例，blacklist 可为 nil（Redis 不可用时降级）
func NewAuthGate(repo *repository.Repository, jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) AuthGate {
	return &authGate{repo: repo, jwtMgr: jwtMgr, blacklist: blacklist, logger: logger}
}

func (g *authGate) Authenticate(ctx context.Context, authorization string, refreshRequest bool) (*Identity, error) {
	token := bearerToken(authorization)
	if token == "" {
		return nil, ErrLoginRequired
	}

	claims, err := g.jwtMgr.ParseExpiredToken(token)
	expired := false
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired) && refreshRequest:
		expired = true
	default:
		return nil, ErrLoginRequired
	}

	if claims.TokenType != jwt.TokenTypeAccess {
		return nil, ErrLoginRequired
	}

	if g.blacklist != nil {
		revoked, err := g.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// Redis 故障时降级放行
			g.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrLoginRequired
		}
	}

	user, err := g.repo.User.GetByID(ctx, claims.UserUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLoginRequired
		}
		return nil, storageFailure(g.logger, err, "认证时查询用户失败", zap.Int64("userUID", claims.UserUID))
	}
	if !user.IsAuth {
		return nil, ErrVerifyEmail
	}

	id := &Identity{
		UserUID:     claims.UserUID,
		UserAuthUID: claims.UserAuthUID,
		TokenID:     claims.ID,
		Expired:     expired,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// bearerToken 支持 "Bearer <token>" 与裸 Token 两种写法
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.ContainsRune(header, ' ') {
		return ""
	}
	return header
}
