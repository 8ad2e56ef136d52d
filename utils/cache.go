package utils

import (
	"context"
	"log"
	"time"

	"patitas/config"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCacheClient caches open-slot listings for the public booking
// form. Entries are short-lived and invalidated on every slot or booking
// write, so a stale listing can only survive for the TTL.
var AvailabilityCacheClient *redis.Client

// InitAvailabilityCache initializes the Redis client used for availability caching.
func InitAvailabilityCache() {
	AvailabilityCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AvailabilityCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (availability cache): %v", err)
	}
}

// GetAvailabilityCacheClient returns the availability cache client.
func GetAvailabilityCacheClient() *redis.Client {
	if AvailabilityCacheClient == nil {
		InitAvailabilityCache()
	}
	return AvailabilityCacheClient
}
