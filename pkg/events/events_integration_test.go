//go:build integration

package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/config"
)

// 需要本地 NATS：TEST_NATS_URL=nats://localhost:4222 go test -tags=integration ./pkg/events/
func TestNATSPublisher_Integration(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("未设置 TEST_NATS_URL")
	}

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("test.group.*.member.joined", received)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p, err := NewPublisher(&config.NATSConfig{URL: url, SubjectPrefix: "test"}, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeMemberJoined, GroupUID: 3, UserUID: 9}))

	select {
	case msg := <-received:
		var ev Event
		require.NoError(t, json.Unmarshal(msg.Data, &ev))
		assert.Equal(t, "test.group.3.member.joined", msg.Subject)
		assert.Equal(t, int64(9), ev.UserUID)
		assert.False(t, ev.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("未收到事件")
	}
}
