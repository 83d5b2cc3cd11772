package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	helper "dndbuilder_backend/internals/helpers"
)

// RecoveryMiddleware turns a panic into an error for ErrorHandler (500) and
// logs the stack with the request id.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] request_id=%s %s %s: %v", helper.RequestID(c), c.Method(), c.Path(), e)
		},
	})
}
