package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNonceGuard is a ReplayGuard for multi-instance deployments: SETNX with
// a per-nonce TTL instead of the in-process wholesale-clear set. Note the
// window semantics differ from NonceGuard: each nonce expires individually,
// giving the tighter sliding bound.
type RedisNonceGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisNonceGuard(rdb *redis.Client, ttl time.Duration) *RedisNonceGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisNonceGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisNonceGuard) CheckAndRecord(ctx context.Context, nonce string) (bool, error) {
	return g.rdb.SetNX(ctx, "nonce:"+nonce, 1, g.ttl).Result()
}
