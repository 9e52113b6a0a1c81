package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared-state limiter used when the service runs with more
// than one replica. A reservation is a SETNX key that Redis expires after
// the window.
type Redis struct {
	rdb    *redis.Client
	scope  string
	window time.Duration
}

// NewRedis creates a limiter scoped by endpoint key, e.g. "auth:token".
func NewRedis(rdb *redis.Client, scope string, window time.Duration) *Redis {
	return &Redis{rdb: rdb, scope: scope, window: window}
}

func (r *Redis) Allow(ctx context.Context, clientID string) (bool, error) {
	return r.rdb.SetNX(ctx, "ratelimit:"+r.scope+":"+clientID, 1, r.window).Result()
}

func (r *Redis) Window() time.Duration { return r.window }
