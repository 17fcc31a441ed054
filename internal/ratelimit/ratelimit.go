package ratelimit

import (
	"fmt"

	"codeberg.org/gemiwell/server/internal/auth"
	"codeberg.org/gemiwell/server/internal/errors"
	"codeberg.org/gemiwell/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const storePrefix = "gemiwell:ratelimit"

// limits requests per user (or per IP before authentication) across every instance sharing redis;
// rate uses the limiter format, e.g. "20-M"
func Middleware(rdb *redis.Client, rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rate, err)
	}

	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:   storePrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit store: %w", err)
	}

	middleware := mgin.NewMiddleware(
		limiter.New(store, parsed),
		mgin.WithKeyGetter(key),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Warn("rate limit reached", "key", key(c))
			errors.TooManyRequests(c, "too many generation requests, please slow down")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			errors.InternalError(c, "rate limiter unavailable", err)
		}),
	)

	return middleware, nil
}

func key(c *gin.Context) string {
	if userID, ok := auth.GetUserID(c); ok {
		return "user:" + userID
	}

	return "ip:" + c.ClientIP()
}
