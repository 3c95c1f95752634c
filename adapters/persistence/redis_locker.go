package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/pkg/logger"
)

const (
	lockKeyPrefix     = "lock:"
	lockRetryInterval = 50 * time.Millisecond
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// Only the holder of the token may release the lock.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	rdb     *redis.Client
	ttl     time.Duration
	maxWait time.Duration
	logger  logger.Logger
}

// NewRedisLocker returns a Locker backed by SET NX PX. A lock expires after
// ttl even if its holder never releases it; waiting for a lock gives up after
// maxWait.
func NewRedisLocker(rdb *redis.Client, ttl, maxWait time.Duration, log logger.Logger) service.Locker {
	return &redisLocker{rdb: rdb, ttl: ttl, maxWait: maxWait, logger: log}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	deadline := time.NewTimer(l.maxWait)
	defer deadline.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("acquire %s: %w", key, ErrLockTimeout)
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *redisLocker) releaser(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseLockScript.Run(ctx, l.rdb, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("Failed to release lock", zap.String("key", redisKey), zap.Error(err))
		}
	}
}
