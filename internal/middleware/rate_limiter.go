package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/config"
	"github.com/lakeview/cottage-admin-console/internal/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "console_login"

// NewRateLimitStore returns a redis-backed store when REDIS_ADDR is set so
// several console instances share one budget, and an in-memory store otherwise
func NewRateLimitStore(ctx context.Context, cfg config.RateLimitConfig) (limiter.Store, error) {
	if cfg.RedisAddr == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}
	return store, nil
}

// LoginRateLimiter limits login attempts per client IP, read the same way
// as the audit trail reads it
func LoginRateLimiter(store limiter.Store, cfg config.RateLimitConfig, logger *logrus.Logger) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Duration(cfg.LoginWindowSeconds) * time.Second,
		Limit:  int64(cfg.LoginRequests),
	}
	instance := limiter.New(store, rate)

	return ginlimiter.NewMiddleware(instance,
		ginlimiter.WithKeyGetter(utils.GetRealIP),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			logger.WithFields(logrus.Fields{
				"ip":   utils.GetRealIP(c),
				"path": c.Request.URL.Path,
			}).Warn("Login rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many login attempts. Please try again later.",
				"code":    "RATE_LIMIT_EXCEEDED",
			})
		}),
		ginlimiter.WithErrorHandler(func(c *gin.Context, err error) {
			logger.WithFields(logrus.Fields{"error": err.Error()}).Error("Rate limiter failure")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Please try again later",
			})
		}),
	)
}
