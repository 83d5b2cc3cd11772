package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "dndbuilder_backend/internals/helpers"
)

// SecondAuthMiddleware is optional auth: a valid token sets the current
// user, anything else continues anonymously.
func SecondAuthMiddleware(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}

		user, err := resolveUser(db.WithContext(c.UserContext()), raw, secret)
		if err != nil {
			log.Printf("[INFO] request_id=%s token ignored, continuing anonymously: %v", helper.RequestID(c), err)
			return c.Next()
		}

		storeUserToLocals(c, raw, user)
		return c.Next()
	}
}
