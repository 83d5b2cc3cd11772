package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/races/controller"
)

func RaceRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) {
	raceCtrl := controller.NewRaceController(db, v, c, reg)
	subraceCtrl := controller.NewSubraceController(db, v, c, reg)

	// /races
	races := api.Group("/races")
	races.Get("/", raceCtrl.List)
	races.Post("/", raceCtrl.Create)
	races.Get("/:id", raceCtrl.GetByID)
	races.Patch("/:id", raceCtrl.Update)
	races.Delete("/:id", raceCtrl.Delete)

	// /subraces
	subraces := api.Group("/subraces")
	subraces.Get("/", subraceCtrl.List)
	subraces.Post("/", subraceCtrl.Create)
	subraces.Get("/:id", subraceCtrl.GetByID)
	subraces.Patch("/:id", subraceCtrl.Update)
	subraces.Delete("/:id", subraceCtrl.Delete)
}
