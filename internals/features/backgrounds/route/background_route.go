package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/backgrounds/controller"
)

func BackgroundRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) {
	ctrl := controller.NewBackgroundController(db, v, c, reg)

	bg := api.Group("/backgrounds")
	bg.Get("/", ctrl.List)
	bg.Post("/", ctrl.Create)
	bg.Get("/:id", ctrl.GetByID)
	bg.Patch("/:id", ctrl.Update)
	bg.Delete("/:id", ctrl.Delete)
}
