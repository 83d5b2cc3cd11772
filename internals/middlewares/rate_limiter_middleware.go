package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "dndbuilder_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: every endpoint, per client IP. max <= 0 disables it.
func GlobalRateLimiter(max int) fiber.Handler {
	return newLimiter(max, time.Minute, "Too many requests, please try again later")
}

// LoginRateLimiter is stricter than the global one.
func LoginRateLimiter() fiber.Handler {
	return newLimiter(10, time.Minute, "Too many login attempts, please try again shortly")
}

// RegisterRateLimiter throttles account creation.
func RegisterRateLimiter() fiber.Handler {
	return newLimiter(5, 5*time.Minute, "Too many registrations, please wait a few minutes")
}
