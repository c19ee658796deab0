package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis initializes a singleton Redis client based on environment variables.
// Returns the client (or nil) and an error if connection/ping failed.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg := LoadConfig()
		if cfg != nil && cfg.AppEnv == "test" {
			// Skip connecting Redis in test environment.
			return
		}

		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		pass := os.Getenv("REDIS_PASS")
		dbNum := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if v, e := strconv.Atoi(dbStr); e == nil {
				dbNum = v
			}
		}

		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: pass,
			DB:       dbNum,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if pingErr := client.Ping(ctx).Err(); pingErr != nil {
			err = fmt.Errorf("redis ping failed: %w", pingErr)
			log.Printf("Redis unavailable at %s: %v", addr, pingErr)
			return
		}

		redisClient = client
	})
	return redisClient, err
}

// GetRedisClient returns the singleton Redis client, or nil when Redis is
// unavailable or skipped (test environment). Callers must handle nil.
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetRedisClientForTesting replaces the singleton client for testing purposes.
func SetRedisClientForTesting(client *redis.Client) {
	redisClient = client
}
