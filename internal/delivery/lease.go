package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Lease is an advisory per-user lock guarding against overlapping runner
// invocations double-sending the same user. It is optional hardening: when
// redis is unavailable the lease fails open and the runner falls back to the
// accepted polling-race behavior.
type Lease struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewLease(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Lease {
	if ttl <= 0 {
		ttl = 65 * time.Minute // slightly longer than the hourly window
	}
	return &Lease{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func leaseKey(userID string) string {
	return fmt.Sprintf("delivery:lease:%s", userID)
}

// Acquire returns true when this invocation holds the user's lease. On
// redis failure processing is allowed rather than blocked.
func (l *Lease) Acquire(ctx context.Context, userID string) bool {
	ok, err := l.rdb.SetNX(ctx, leaseKey(userID), 1, l.ttl).Result()
	if err != nil {
		l.logger.Warn("Lease check failed, allowing processing",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		l.logger.Info("Skipped user held by another invocation",
			zap.String("user_id", userID),
		)
	}
	return ok
}

// Release frees the lease early so the next hourly pass can retry a failed
// send instead of waiting out the TTL.
func (l *Lease) Release(ctx context.Context, userID string) {
	if err := l.rdb.Del(ctx, leaseKey(userID)).Err(); err != nil {
		l.logger.Warn("Lease release failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
