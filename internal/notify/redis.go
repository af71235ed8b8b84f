package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream billing events are appended to.
const DefaultStream = "paylink:billing-created"

// RedisNotifier appends events to a Redis stream for the mailer to consume.
type RedisNotifier struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewRedisNotifier creates a notifier writing to stream (DefaultStream if empty).
// The stream is trimmed to roughly maxLen entries; 0 disables trimming.
func NewRedisNotifier(rdb *redis.Client, stream string, maxLen int64) *RedisNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisNotifier{rdb: rdb, stream: stream, maxLen: maxLen}
}

// BillingCreated appends the event as a JSON payload.
func (n *RedisNotifier) BillingCreated(ctx context.Context, event BillingCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode billing event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"type":       "billing.created",
			"billing_id": event.BillingID,
			"payload":    payload,
		},
	}
	if n.maxLen > 0 {
		args.MaxLen = n.maxLen
		args.Approx = true
	}

	if err := n.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish billing event: %w", err)
	}
	return nil
}
