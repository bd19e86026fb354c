package utils

import (
	"context"
	"log"
	"time"

	"reserva/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds conversation session records.
	SessionCacheClient *redis.Client
	// QuotaCacheClient holds per-tenant push-quota counters.
	QuotaCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client backing conversation sessions.
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

// GetSessionCacheClient returns the session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitQuotaCache initializes the Redis client for push-quota counters.
func InitQuotaCache() {
	QuotaCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQuotaDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := QuotaCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Quota): %v", err)
	}
}

// GetQuotaCacheClient returns the Redis client for push-quota counters.
func GetQuotaCacheClient() *redis.Client {
	if QuotaCacheClient == nil {
		InitQuotaCache()
	}
	return QuotaCacheClient
}

// InitRedis initializes all Redis clients at startup.
func InitRedis() {
	InitSessionCache()
	InitQuotaCache()
}
