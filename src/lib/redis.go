package lib

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// CacheUserJSON stores the serialized principal under "<id>:user". Failures
// are logged only; the cache is an optimization, not a source of truth.
func CacheUserJSON(ctx context.Context, userId uint, v any) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if _, err := rd.JSONSet(ctx, fmt.Sprintf("%d:user", userId), "$", v).Result(); err != nil {
		log.Printf("[redis] Error updating user cache: %s\n", err.Error())
	}
}

// CachedUserJSON returns the raw cached principal JSON, or "" on miss.
func CachedUserJSON(ctx context.Context, userId uint) string {
	rd := GetRedisClient()
	if rd == nil {
		return ""
	}
	val, err := rd.JSONGet(ctx, fmt.Sprintf("%d:user", userId)).Result()
	if err != nil {
		return ""
	}
	return val
}

func DropUserCache(ctx context.Context, userId uint) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	rd.Del(ctx, fmt.Sprintf("%d:user", userId))
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}
