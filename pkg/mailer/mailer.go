// Package mailer 发送注册验证码邮件
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/config"
)

// Mailer 邮件发送接口
type Mailer interface {
	SendAuthCode(ctx context.Context, to, code string) error
}

// New 根据配置创建 Mailer，未配置 SMTP 时仅记录日志
func New(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("未配置 SMTP，验证码仅写入日志")
		return &logMailer{logger: logger}
	}
	return &smtpMailer{cfg: *cfg, logger: logger}
}

// ── SMTP 实现 ──

type smtpMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func (m *smtpMailer) SendAuthCode(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)

	msg := buildMessage(m.cfg.From, to, "[공사] 이메일 인증 코드", "인증 코드: "+code)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		m.logger.Error("发送验证邮件失败", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	m.logger.Info("验证邮件已发送", zap.String("to", to))
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// ── 日志实现 ──

type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) SendAuthCode(_ context.Context, to, code string) error {
	m.logger.Info("验证码（未发送邮件）", zap.String("to", to), zap.String("code", code))
	return nil
}
