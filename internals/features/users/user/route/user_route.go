package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/users/user/controller"
	authMiddleware "dndbuilder_backend/internals/middlewares/auth"
)

// UserRoutes mounts the superuser-only /users administration.
func UserRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, reg *database.Registry, secret string) {
	ctrl := controller.NewUserController(db, v, reg)

	g := api.Group("/users",
		authMiddleware.AuthMiddleware(db, secret),
		authMiddleware.RequireSuperuser("manage users"),
	)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
