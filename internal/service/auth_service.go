package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/config"
	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
	"github.com/jhappydev/gongsa-server/pkg/jwt"
	"github.com/jhappydev/gongsa-server/pkg/mailer"
	"github.com/jhappydev/gongsa-server/pkg/sanitize"
)

// ── 认证模块业务错误 ──

var (
	ErrEmailTaken         = pkgerrors.Conflict("email", "email already registered")
	ErrNicknameTaken      = pkgerrors.Conflict("nickname", "nickname already taken")
	ErrInvalidNickname    = pkgerrors.Validation("nickname", "invalid nickname")
	ErrInvalidCredentials = pkgerrors.Validation("passwd", "invalid email or password")
	ErrEmailNotFound      = pkgerrors.NotFound("email", "user not found")
	ErrInvalidAuthCode    = pkgerrors.Validation("authCode", "invalid auth code")
)

const authCodeLength = 6

// AuthService 账号与会话业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh 用会话中保存的 Refresh Token 换发 Access Token
	Refresh(ctx context.Context, id *Identity, refreshToken string) (*dto.TokenResponse, error)
	// Logout 注销当前 Access Token 并删除会话
	Logout(ctx context.Context, id *Identity) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	mailer    mailer.Mailer
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例，m 为 nil 时验证码仅写日志
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	m mailer.Mailer,
	logger *zap.Logger,
) AuthService {
	if m == nil {
		m = mailer.New(&config.MailConfig{}, logger)
	}
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		mailer:    m,
		logger:    logger,
	}
}

// ────────────── Register ──────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	nickname := sanitize.Text(req.Nickname)
	if nickname == "" {
		return nil, ErrInvalidNickname
	}

	// 1. 唯一性检查
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, storageFailure(s.logger, err, "查询邮箱失败")
	}
	taken, err := s.repo.User.ExistsByNickname(ctx, nickname)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询昵称失败")
	}
	if taken {
		return nil, ErrNicknameTaken
	}

	// 2. 密码哈希与验证码
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Passwd), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}
	code, err := generateAuthCode()
	if err != nil {
		s.logger.Error("生成验证码失败", zap.Error(err))
		return nil, err
	}

	// 3. 创建用户
	user := &model.User{
		Email:    email,
		Passwd:   string(hash),
		Nickname: nickname,
		AuthCode: code,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发注册时由唯一索引兜底
			return nil, ErrEmailTaken
		}
		return nil, storageFailure(s.logger, err, "创建用户失败")
	}

	// 4. 发送验证码，失败不影响注册结果
	if err := s.mailer.SendAuthCode(ctx, email, code); err != nil {
		s.logger.Warn("验证码邮件发送失败", zap.Int64("userUID", user.UID), zap.Error(err))
	}

	return &dto.RegisterResponse{UserUID: user.UID}, nil
}

// ────────────── VerifyEmail ──────────────

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	user, err := s.repo.User.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if isNotFound(err) {
			return ErrEmailNotFound
		}
		return storageFailure(s.logger, err, "查询用户失败")
	}
	if user.IsAuth {
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(user.AuthCode), []byte(req.AuthCode)) != 1 {
		return ErrInvalidAuthCode
	}

	user.IsAuth = true
	user.AuthCode = ""
	if err := s.repo.User.Update(ctx, user); err != nil {
		return storageFailure(s.logger, err, "更新邮箱验证状态失败", zap.Int64("userUID", user.UID))
	}
	return nil
}

// ────────────── Login ──────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageFailure(s.logger, err, "查询用户失败")
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.Passwd), []byte(req.Passwd)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 邮箱未验证
	if !user.IsAuth {
		return nil, ErrVerifyEmail
	}

	// 4. 创建会话并签发 Token 对
	var accessToken, refreshToken string
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		session := &model.UserAuth{
			UserUID:   user.UID,
			ExpiredAt: time.Now().Add(s.jwtMgr.RefreshTokenTTL()),
		}
		if err := tx.UserAuth.Create(ctx, session); err != nil {
			return err
		}

		var err error
		if refreshToken, err = s.jwtMgr.GenerateRefreshToken(user.UID, session.UID); err != nil {
			return err
		}
		if accessToken, err = s.jwtMgr.GenerateAccessToken(user.UID, session.UID); err != nil {
			return err
		}

		session.RefreshToken = refreshToken
		return tx.UserAuth.Update(ctx, session)
	})
	if err != nil {
		return nil, storageFailure(s.logger, err, "创建登录会话失败", zap.Int64("userUID", user.UID))
	}

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ────────────── Refresh ──────────────

func (s *authService) Refresh(ctx context.Context, id *Identity, refreshToken string) (*dto.TokenResponse, error) {
	session, err := s.repo.UserAuth.GetByID(ctx, id.UserAuthUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLoginRequired
		}
		return nil, storageFailure(s.logger, err, "查询登录会话失败")
	}

	if session.UserUID != id.UserUID ||
		subtle.ConstantTimeCompare([]byte(session.RefreshToken), []byte(refreshToken)) != 1 ||
		!session.ExpiredAt.After(time.Now()) {
		return nil, ErrLoginRequired
	}

	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh || claims.UserAuthUID != session.UID {
		return nil, ErrLoginRequired
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(session.UserUID, session.UID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: accessToken}, nil
}

// ────────────── Logout ──────────────

func (s *authService) Logout(ctx context.Context, id *Identity) error {
	if s.blacklist != nil && id.TokenID != "" {
		if err := s.blacklist.BlacklistToken(ctx, id.TokenID, time.Until(id.ExpiresAt)); err != nil {
			s.logger.Warn("Token 加入黑名单失败", zap.Int64("userUID", id.UserUID), zap.Error(err))
		}
	}

	if err := s.repo.UserAuth.Delete(ctx, id.UserAuthUID); err != nil {
		return storageFailure(s.logger, err, "删除登录会话失败", zap.Int64("userUID", id.UserUID))
	}
	return nil
}

// generateAuthCode 6 位数字验证码
func generateAuthCode() (string, error) {
	buf := make([]byte, authCodeLength)
	ten := big.NewInt(10)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
