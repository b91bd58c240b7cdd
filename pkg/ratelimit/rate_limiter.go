package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type (
	// Limiter gates spin attempts per user. Allow returns false only when a
	// window is positively over its cap.
	Limiter interface {
		Allow(ctx context.Context, userID string) (bool, error)
	}

	// spinLimiter counts spins in fixed second and minute windows backed by
	// redis INCR keys. When redis is unreachable the limiter degrades open:
	// a broken counter must not take spinning down with it.
	spinLimiter struct {
		client    *redis.Client
		perSecond int
		perMinute int
	}
)

func NewSpinLimiter(client *redis.Client, perSecond, perMinute int) Limiter {
	return &spinLimiter{
		client:    client,
		perSecond: perSecond,
		perMinute: perMinute,
	}
}

func (l *spinLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	now := time.Now().Unix()

	secKey := fmt.Sprintf("rl:spin:sec:%s:%d", userID, now)
	ok, err := l.bump(ctx, secKey, 2*time.Second, l.perSecond)
	if err != nil {
		log.Printf("ratelimit: redis error on %s, allowing: %v", secKey, err)
		return true, nil
	}
	if !ok {
		return false, nil
	}

	minKey := fmt.Sprintf("rl:spin:min:%s:%d", userID, now/60)
	ok, err = l.bump(ctx, minKey, 70*time.Second, l.perMinute)
	if err != nil {
		log.Printf("ratelimit: redis error on %s, allowing: %v", minKey, err)
		return true, nil
	}
	return ok, nil
}

func (l *spinLimiter) bump(ctx context.Context, key string, ttl time.Duration, max int) (bool, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, ttl).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(max), nil
}
