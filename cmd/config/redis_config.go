package config

import (
	"context"
	"fmt"
	"log"

	"Pointspin-Backend/internal/utils"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis dials the rate limiter backend. A failed ping is logged but
// not fatal: the spin limiter degrades open without redis.
func ConnectRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", utils.GetConfig("REDIS_HOST"), utils.GetConfig("REDIS_PORT")),
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis ping failed: %v", err)
	}
	return client
}
