// Package notify fans admin dashboard events out over redis pub/sub; the
// websocket handler relays them to connected admins.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AdminChannel is the single pub/sub channel every admin socket subscribes to.
const AdminChannel = "admin_notify"

// 事件类型，与前端解析保持一致。
const (
	TypeContactCreated = "contact.created"
	TypeEmailDelivered = "email.delivered"
	TypeEmailFailed    = "email.failed"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Event is the websocket message shape.
type Event struct {
	Type          string    `json:"type"`
	ContactID     uint      `json:"contact_id,omitempty"`
	TaskType      string    `json:"task_type,omitempty"`
	Status        string    `json:"status"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	ErrorCode     int       `json:"error_code"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher sends an event to every subscribed admin.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisPublisher publishes JSON-encoded events on AdminChannel.
type RedisPublisher struct {
	rdb redis.UniversalClient
	now func() time.Time
}

func NewRedisPublisher(rdb redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, now: time.Now}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = p.now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, AdminChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Nop drops every event; used when no redis is configured (tests, CLI).
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
