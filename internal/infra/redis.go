package infra

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// InitRedis connects the shared counter store used by the rate limiter. The
// limits must hold across horizontally scaled instances, which is why they
// are not in-process maps.
func InitRedis() *redis.Client {

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("Error parsing REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Error pinging redis: %v", err)
	}

	return client
}
