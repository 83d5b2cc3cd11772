package middlewares

import (
	"github.com/gofiber/fiber/v2"

	helper "dndbuilder_backend/internals/helpers"
)

// ErrorHandler is the app-wide fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return helper.FromError(c, err)
}
