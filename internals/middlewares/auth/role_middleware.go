package auth

import (
	"github.com/gofiber/fiber/v2"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	helper "dndbuilder_backend/internals/helpers"
)

// RequireSuperuser must run after AuthMiddleware.
func RequireSuperuser(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := helper.CurrentUserID(c); !ok {
			return apperrors.Unauthenticated("Not authenticated")
		}
		if !helper.IsSuperuser(c) {
			return apperrors.PermissionDenied(constants.AdminError(action))
		}
		return c.Next()
	}
}
