package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
	"roomlink/pkg/response"
)

// Limiter is satisfied by ratelimit.RateLimiter.
type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// IPRateLimit applies the action's bucket per client IP.
func IPRateLimit(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ok, wait := limiter.Allow("ip:"+ip, action); !ok {
				logger.Warn("RATE LIMIT: %s from %s blocked for %v", action, ip, wait)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}
			return next(c)
		}
	}
}
