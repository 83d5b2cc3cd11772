package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/users/auth/dto"
	authRepo "dndbuilder_backend/internals/features/users/auth/repository"
	"dndbuilder_backend/internals/features/users/auth/service"
	userDTO "dndbuilder_backend/internals/features/users/user/dto"
	helper "dndbuilder_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Service  *service.AuthService
}

func NewAuthController(db *gorm.DB, v *validator.Validate, svc *service.AuthService) *AuthController {
	return &AuthController{DB: db, Validate: v, Service: svc}
}

// POST /auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := helper.BindAndValidate(c, ac.Validate, &req); err != nil {
		return err
	}
	user, err := ac.Service.Register(ac.DB.WithContext(c.UserContext()), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "User registered", userDTO.ToUserResponse(*user))
}

// POST /auth/login accepts JSON or an OAuth2 password form.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindAndValidate(c, ac.Validate, &req); err != nil {
		return err
	}
	tok, err := ac.Service.Login(ac.DB.WithContext(c.UserContext()), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login successful", tok)
}

// GET /auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := helper.CurrentUserID(c)
	if !ok {
		return apperrors.Unauthenticated("Not authenticated")
	}
	user, err := authRepo.FindUserByID(ac.DB.WithContext(c.UserContext()), userID)
	if err != nil {
		return helper.DBError(err, "User not found")
	}
	return helper.JsonOK(c, "OK", userDTO.ToUserResponse(*user))
}

// POST /auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, ok := helper.CurrentUserID(c)
	if !ok {
		return apperrors.Unauthenticated("Not authenticated")
	}
	var req dto.ChangePasswordRequest
	if err := helper.BindAndValidate(c, ac.Validate, &req); err != nil {
		return err
	}
	if err := ac.Service.ChangePassword(ac.DB.WithContext(c.UserContext()), userID, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Password changed", nil)
}
