package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/characters/controller"
	authMiddleware "dndbuilder_backend/internals/middlewares/auth"
)

// CharacterRoutes mounts /characters behind optional auth: anonymous callers
// may use unowned characters, owned ones need their owner.
func CharacterRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, reg *database.Registry, secret string) {
	charCtrl := controller.NewCharacterController(db, v, reg)
	sheetCtrl := controller.NewSheetController(db, v)

	chars := api.Group("/characters", authMiddleware.SecondAuthMiddleware(db, secret))
	chars.Get("/", charCtrl.List)
	chars.Post("/", charCtrl.Create)
	chars.Get("/:id", charCtrl.GetByID)
	chars.Patch("/:id", charCtrl.Update)
	chars.Delete("/:id", charCtrl.Delete)

	chars.Get("/:id/ability-scores", sheetCtrl.ListAbilityScores)
	chars.Get("/:id/ability-scores/:ability", sheetCtrl.GetAbilityScore)
	chars.Patch("/:id/ability-scores/:ability", sheetCtrl.UpdateAbilityScore)

	chars.Get("/:id/skills", sheetCtrl.ListSkills)
	chars.Put("/:id/skills", sheetCtrl.UpsertSkill)
	chars.Delete("/:id/skills/:proficiency_id", sheetCtrl.DeleteSkill)
}
