// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"roomdesk/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds negotiation conversations and seen webhook ids.
	SessionCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for conversation state (using REDIS_SESSION_DB).
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the Redis client for conversation state.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}
