package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userModel "dndbuilder_backend/internals/features/users/user/model"
	helper "dndbuilder_backend/internals/helpers"
)

var errInactiveUser = errors.New("user is inactive")

// resolveUser verifies the token and loads its active user.
func resolveUser(db *gorm.DB, raw, secret string) (*userModel.UserModel, error) {
	if raw == "" {
		return nil, fmt.Errorf("no token provided")
	}
	userID, err := helper.ParseAccessToken(raw, secret)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	var user userModel.UserModel
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errInactiveUser
	}
	return &user, nil
}

func storeUserToLocals(c *fiber.Ctx, raw string, user *userModel.UserModel) {
	c.Locals(helper.LocRawToken, raw)
	c.Locals(helper.LocUserID, user.ID)
	c.Locals(helper.LocIsSuperuser, user.IsSuperuser)
}
