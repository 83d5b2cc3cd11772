package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/classes/controller"
)

func ClassRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) {
	classCtrl := controller.NewClassController(db, v, c, reg)
	subclassCtrl := controller.NewSubclassController(db, v, c, reg)
	featureCtrl := controller.NewClassFeatureController(db, v, c)

	// /classes
	classes := api.Group("/classes")
	classes.Get("/", classCtrl.List)
	classes.Post("/", classCtrl.Create)
	classes.Get("/:id", classCtrl.GetByID)
	classes.Patch("/:id", classCtrl.Update)
	classes.Delete("/:id", classCtrl.Delete)

	// /subclasses
	subclasses := api.Group("/subclasses")
	subclasses.Get("/", subclassCtrl.List)
	subclasses.Post("/", subclassCtrl.Create)
	subclasses.Get("/:id", subclassCtrl.GetByID)
	subclasses.Patch("/:id", subclassCtrl.Update)
	subclasses.Delete("/:id", subclassCtrl.Delete)

	// /class-features
	features := api.Group("/class-features")
	features.Get("/", featureCtrl.List)
	features.Post("/", featureCtrl.Create)
	features.Get("/:id", featureCtrl.GetByID)
	features.Patch("/:id", featureCtrl.Update)
	features.Delete("/:id", featureCtrl.Delete)
}
