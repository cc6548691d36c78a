package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. With a redis client the counters
// are shared between instances; otherwise they live in process memory.
func RateLimiter(client *redis.Client, perMinute int64) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  perMinute,
	}

	var store limiter.Store = memory.NewStore()
	if client != nil {
		rs, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "temple_registry_limiter",
		})
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ redis rate limit store unavailable, falling back to memory")
		} else {
			store = rs
		}
	}

	// 📊 Limiter instance
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(true))

	// 🚦 Gin-compatible middleware
	return ginlimiter.NewMiddleware(instance)
}
