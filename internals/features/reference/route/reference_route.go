package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/reference/controller"
)

func ReferenceRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) {
	abilityCtrl := controller.NewAbilityScoreController(db, c)
	profCtrl := controller.NewProficiencyController(db, v, c, reg)

	// /ability-scores (read-only)
	as := api.Group("/ability-scores")
	as.Get("/", abilityCtrl.List)
	as.Get("/:id", abilityCtrl.GetByID)

	// /proficiencies
	pf := api.Group("/proficiencies")
	pf.Get("/", profCtrl.List)
	pf.Post("/", profCtrl.Create)
	pf.Get("/:id", profCtrl.GetByID)
	pf.Patch("/:id", profCtrl.Update)
	pf.Delete("/:id", profCtrl.Delete)
}
