// Package events 向 NATS 发布学习小组领域事件
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/config"
)

// ── 事件类型 ──

const (
	TypeMemberJoined = "member.joined"
	TypeMemberLeft   = "member.left"
	TypeGroupCreated = "group.created"
	TypeStudyStatus  = "study.status"
)

// Event 事件信封
type Event struct {
	Type       string      `json:"type"`
	GroupUID   int64       `json:"groupUID"`
	UserUID    int64       `json:"userUID"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Subject 事件主题：<prefix>.group.<groupUID>.<type>
func Subject(prefix string, ev Event) string {
	return fmt.Sprintf("%s.group.%d.%s", prefix, ev.GroupUID, ev.Type)
}

// ── NATS 实现 ──

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewPublisher 根据配置创建发布器
// 未配置 URL 时返回 NopPublisher
func NewPublisher(cfg *config.NATSConfig, logger *zap.Logger) (Publisher, error) {
	if cfg.URL == "" {
		logger.Info("未配置 NATS，事件发布已禁用")
		return NopPublisher{}, nil
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("gongsa-server"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS 连接断开", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("NATS 连接失败: %w", err)
	}

	logger.Info("NATS 连接成功", zap.String("url", cfg.URL))

	return NewNATSPublisher(nc, cfg.SubjectPrefix, logger), nil
}

// NewNATSPublisher 包装已有 NATS 连接
func NewNATSPublisher(conn *nats.Conn, prefix string, logger *zap.Logger) Publisher {
	if prefix == "" {
		prefix = "gongsa"
	}
	return &natsPublisher{conn: conn, prefix: prefix, logger: logger}
}

func (p *natsPublisher) Publish(_ context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	subject := Subject(p.prefix, ev)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("发布事件失败", zap.String("subject", subject), zap.Error(err))
		return err
	}

	p.logger.Debug("事件已发布", zap.String("subject", subject))
	return nil
}

func (p *natsPublisher) Close() error {
	return p.conn.Drain()
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
