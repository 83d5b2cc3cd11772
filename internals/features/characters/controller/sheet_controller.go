package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/characters/dto"
	"dndbuilder_backend/internals/features/characters/model"
	"dndbuilder_backend/internals/features/characters/service"
	refModel "dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
	"dndbuilder_backend/internals/rules"
)

// SheetController serves the ability-score breakdown and skill rows of a
// character.
type SheetController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewSheetController(db *gorm.DB, v *validator.Validate) *SheetController {
	return &SheetController{DB: db, Validate: v}
}

func abilityParam(c *fiber.Ctx) (string, error) {
	a, ok := constants.NormalizeAbility(c.Params("ability"))
	if !ok {
		return "", apperrors.NewValidationBuilder().
			Fieldf("ability", "must be one of: %s", strings.Join(constants.Abilities, ", ")).
			Build()
	}
	return a, nil
}

func findCharacter(tx *gorm.DB, id uint) (model.Character, error) {
	var m model.Character
	err := tx.First(&m, id).Error
	return m, helper.DBError(err, "Character not found")
}

// GET /characters/:id/ability-scores
func (ctl *SheetController) ListAbilityScores(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	m, err := service.Load(ctl.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	out := make([]dto.AbilityScoreBreakdown, 0, len(m.AbilityScores))
	for _, s := range m.AbilityScores {
		out = append(out, dto.ToAbilityScoreBreakdown(s))
	}
	return helper.JsonOK(c, "Ability scores retrieved", out)
}

func findAbilityRow(tx *gorm.DB, characterID uint, ability string) (model.CharacterAbilityScore, error) {
	var row model.CharacterAbilityScore
	err := tx.Preload("AbilityScore").
		Where("character_id = ? AND ability_score_id = (?)", characterID,
			tx.Model(&refModel.AbilityScore{}).Select("id").Where("name = ?", ability)).
		First(&row).Error
	return row, helper.DBError(err, "Ability score not found for this character")
}

// GET /characters/:id/ability-scores/:ability
func (ctl *SheetController) GetAbilityScore(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	ability, err := abilityParam(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.UserContext())
	if _, err := findCharacter(db, id); err != nil {
		return err
	}
	row, err := findAbilityRow(db, id, ability)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Ability score retrieved", dto.ToAbilityScoreBreakdown(row))
}

// PATCH /characters/:id/ability-scores/:ability. The character's score
// column follows base_value.
func (ctl *SheetController) UpdateAbilityScore(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	ability, err := abilityParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAbilityScoreRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.CharacterAbilityScore
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m, err := findCharacter(tx, id)
		if err != nil {
			return err
		}
		if err := service.CheckOwner(c, &m); err != nil {
			return err
		}
		row, err := findAbilityRow(tx, id, ability)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.CharacterAbilityScore{}).Where("id = ?", row.ID).
			Updates(req.BuildUpdateMap()).Error; err != nil {
			return helper.DBError(err, "")
		}
		if req.BaseValue != nil {
			if err := tx.Model(&m).Update(ability, *req.BaseValue).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		out, err = findAbilityRow(tx, id, ability)
		return err
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Ability score updated", dto.ToAbilityScoreBreakdown(out))
}

// GET /characters/:id/skills
func (ctl *SheetController) ListSkills(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	m, err := service.Load(ctl.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Skills retrieved", dto.ToCharacterResponse(m).Skills)
}

// PUT /characters/:id/skills creates or changes one skill row. Only
// proficiencies of type skill are accepted.
func (ctl *SheetController) UpsertSkill(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpsertSkillRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out dto.SkillResponse
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m, err := findCharacter(tx, id)
		if err != nil {
			return err
		}
		if err := service.CheckOwner(c, &m); err != nil {
			return err
		}

		var prof refModel.Proficiency
		if err := tx.First(&prof, req.ProficiencyID).Error; err != nil {
			if apperrors.IsNotFound(helper.DBError(err, "")) {
				return apperrors.NewValidationBuilder().
					Fieldf("proficiency_id", "no record with id %d", req.ProficiencyID).Build()
			}
			return helper.DBError(err, "")
		}
		if prof.Type != string(constants.ProficiencyTypeSkill) {
			return apperrors.NewValidationBuilder().
				Fieldf("proficiency_id", "proficiency %q is of type %s, not skill", prof.Name, prof.Type).Build()
		}

		row := model.CharacterSkill{
			CharacterID:      id,
			ProficiencyID:    prof.ID,
			ProficiencyLevel: req.ProficiencyLevel,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "character_id"}, {Name: "proficiency_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proficiency_level", "updated_at"}),
		}).Omit("Proficiency").Create(&row).Error; err != nil {
			return helper.DBError(err, "")
		}

		sheet, err := service.Load(tx, id)
		if err != nil {
			return err
		}
		profBonus, _ := rules.ProficiencyBonus(sheet.Level)
		mods := dto.AbilityModifiers(sheet)
		for _, s := range sheet.Skills {
			if s.ProficiencyID == prof.ID {
				out = dto.ToSkillResponse(s, mods, profBonus)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Skill saved", out)
}

// DELETE /characters/:id/skills/:proficiency_id
func (ctl *SheetController) DeleteSkill(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	profID, err := helper.ParamID(c, "proficiency_id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m, err := findCharacter(tx, id)
		if err != nil {
			return err
		}
		if err := service.CheckOwner(c, &m); err != nil {
			return err
		}
		res := tx.Where("character_id = ? AND proficiency_id = ?", id, profID).Delete(&model.CharacterSkill{})
		if res.Error != nil {
			return helper.DBError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Skill not found for this character")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Skill removed", fiber.Map{"character_id": id, "proficiency_id": profID})
}
