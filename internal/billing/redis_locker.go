package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our owner token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance using the same Redis.
// Locks expire after ttl so a crashed holder cannot block a billing forever.
type RedisLocker struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	retryWait time.Duration
	logger    *slog.Logger
}

// NewRedisLocker creates a RedisLocker. ttl must exceed the longest admission.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		rdb:       rdb,
		prefix:    "paylink:lock:billing:",
		ttl:       ttl,
		retryWait: 25 * time.Millisecond,
		logger:    logger,
	}
}

// Lock polls SET NX until the key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, billingID int64) (func(), error) {
	key := fmt.Sprintf("%s%d", l.prefix, billingID)
	owner := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, key, owner, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire billing lock: %w", err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryWait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return func() {
		// Release even if the request context was cancelled meanwhile.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, owner).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("Failed to release billing lock", "billing_id", billingID, "error", err)
		}
	}, nil
}
