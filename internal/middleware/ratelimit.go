package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/engagesphere/api/internal/config"
)

// RateLimiter shares one token bucket across every request to the wrapped routes. Rejected
// requests get 429 with a Retry-After hint of one refill period.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	refill := cfg.Interval / time.Duration(cfg.Requests)
	if refill <= 0 {
		refill = time.Second
	}
	retryAfter := strconv.Itoa(int(math.Ceil(refill.Seconds())))

	limiter := rate.NewLimiter(rate.Every(refill), cfg.Requests)
	var mu sync.Mutex

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mu.Lock()
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				c.Response().Header().Set("Retry-After", retryAfter)
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			}

			return next(c)
		}
	}
}
