package utils

import (
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// GetRedisClient builds a client from REDIS_HOST, REDIS_PORT and REDIS_PASSWD.
// The tweet render cache is the only redis consumer today.
func GetRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
}

// TweetCacheKey is the cache key for a tweet's render data, shared with the
// site-side cache so both read the same entries.
func TweetCacheKey(tweetID string) string {
	return "tweet:" + tweetID
}
