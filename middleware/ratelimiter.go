package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. With a Redis client the counters
// are shared across instances; otherwise they live in process memory.
func RateLimiter(perMinute int64, rdb *redis.Client) (gin.HandlerFunc, error) {
	if perMinute <= 0 {
		perMinute = 100
	}
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}

	var store limiter.Store
	if rdb != nil {
		s, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix: "eventify:ratelimit",
		})
		if err != nil {
			return nil, fmt.Errorf("redis limiter store: %w", err)
		}
		store = s
	} else {
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance), nil
}
