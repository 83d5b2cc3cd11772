package middlewares

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"dndbuilder_backend/internals/configs"
	"dndbuilder_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain: request id, access log,
// recover, CORS, compress, etag, rate limit, request timeout.
func SetupMiddlewares(app *fiber.App, s *configs.Settings, accessLog io.Writer) {
	app.Use(RequestID())
	app.Use(logger.LoggerMiddleware(accessLog))
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware(s.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	app.Use(GlobalRateLimiter(s.RateLimitPerMinute))
	app.Use(Timeout(s.RequestTimeout))
}
