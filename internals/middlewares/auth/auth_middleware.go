package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
	helper "dndbuilder_backend/internals/helpers"
)

// AuthMiddleware requires a valid bearer token of an active user.
func AuthMiddleware(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return apperrors.Unauthenticated("Not authenticated")
		}

		user, err := resolveUser(db.WithContext(c.UserContext()), raw, secret)
		switch {
		case err == nil:
		case errors.Is(err, errInactiveUser):
			return apperrors.PermissionDenied("Inactive user")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apperrors.Unauthenticated("User not found")
		default:
			log.Printf("[WARN] request_id=%s auth rejected: %v", helper.RequestID(c), err)
			return apperrors.Unauthenticated("Could not validate credentials")
		}

		storeUserToLocals(c, raw, user)
		return c.Next()
	}
}
