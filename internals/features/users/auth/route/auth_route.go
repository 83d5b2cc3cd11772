package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/configs"
	"dndbuilder_backend/internals/features/users/auth/controller"
	"dndbuilder_backend/internals/features/users/auth/service"
	"dndbuilder_backend/internals/middlewares"
	authMiddleware "dndbuilder_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /auth under api.
func AuthRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, s *configs.Settings) {
	svc := service.NewAuthService(db, s.SecretKey, s.AccessTokenTTL())
	ctrl := controller.NewAuthController(db, v, svc)
	requireUser := authMiddleware.AuthMiddleware(db, s.SecretKey)

	g := api.Group("/auth")
	g.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	g.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	g.Get("/me", requireUser, ctrl.Me)
	g.Post("/change-password", requireUser, ctrl.ChangePassword)
}
