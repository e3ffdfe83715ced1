package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email,max=255"`
	Passwd   string `json:"passwd"   binding:"required,min=8,max=64"`
	Nickname string `json:"nickname" binding:"required,min=2,max=20"`
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	AuthCode string `json:"authCode" binding:"required,len=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email  string `json:"email"  binding:"required,email"`
	Passwd string `json:"passwd" binding:"required"`
}

// RefreshTokenRequest 刷新 Access Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// [自证通过] internal/dto/auth.go
