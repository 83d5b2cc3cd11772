// Package service holds the character rules that need storage: reference
// checks, racial bonuses, ownership and the ability-score rows.
package service

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	bgModel "dndbuilder_backend/internals/features/backgrounds/model"
	"dndbuilder_backend/internals/features/characters/model"
	classModel "dndbuilder_backend/internals/features/classes/model"
	raceModel "dndbuilder_backend/internals/features/races/model"
	refModel "dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
)

// Preloads used to render a full character sheet.
var SheetPreloads = []string{
	"Race", "Subrace", "Class", "Subclass", "Background",
	"Proficiencies", "AbilityScores.AbilityScore", "Skills.Proficiency",
}

// Load reads one character with its whole sheet.
func Load(tx *gorm.DB, id uint) (model.Character, error) {
	q := tx
	for _, rel := range SheetPreloads {
		q = q.Preload(rel)
	}
	q = q.Preload("AbilityScores", func(db *gorm.DB) *gorm.DB {
		return db.Order("ability_score_id ASC")
	}).Preload("Skills", func(db *gorm.DB) *gorm.DB {
		return db.Order("proficiency_id ASC")
	})
	var m model.Character
	err := q.First(&m, id).Error
	return m, helper.DBError(err, "Character not found")
}

// ValidateRefs checks that every referenced row exists and that the subrace
// and subclass belong to the character's race and class.
func ValidateRefs(tx *gorm.DB, m *model.Character) error {
	vb := apperrors.NewValidationBuilder()

	exists := func(table any, id uint, field string) (bool, error) {
		var n int64
		if err := tx.Model(table).Where("id = ?", id).Count(&n).Error; err != nil {
			return false, helper.DBError(err, "")
		}
		if n == 0 {
			vb.Fieldf(field, "no record with id %d", id)
		}
		return n > 0, nil
	}

	if _, err := exists(&raceModel.Race{}, m.RaceID, "race_id"); err != nil {
		return err
	}
	if _, err := exists(&classModel.Class{}, m.ClassID, "class_id"); err != nil {
		return err
	}
	if _, err := exists(&bgModel.Background{}, m.BackgroundID, "background_id"); err != nil {
		return err
	}

	if m.SubraceID != nil {
		var sub raceModel.Subrace
		err := tx.Select("id", "race_id").Where("id = ?", *m.SubraceID).Limit(1).Find(&sub).Error
		switch {
		case err != nil:
			return helper.DBError(err, "")
		case sub.ID == 0:
			vb.Fieldf("subrace_id", "no record with id %d", *m.SubraceID)
		case sub.RaceID != m.RaceID:
			vb.Fieldf("subrace_id", "subrace %d does not belong to race %d", sub.ID, m.RaceID)
		}
	}
	if m.SubclassID != nil {
		var sub classModel.Subclass
		err := tx.Select("id", "class_id").Where("id = ?", *m.SubclassID).Limit(1).Find(&sub).Error
		switch {
		case err != nil:
			return helper.DBError(err, "")
		case sub.ID == 0:
			vb.Fieldf("subclass_id", "no record with id %d", *m.SubclassID)
		case sub.ClassID != m.ClassID:
			vb.Fieldf("subclass_id", "subclass %d does not belong to class %d", sub.ID, m.ClassID)
		}
	}
	return vb.Build()
}

// RacialBonuses sums the ability increases of the race and subrace.
func RacialBonuses(tx *gorm.DB, raceID uint, subraceID *uint) (map[string]int, error) {
	out := make(map[string]int, len(constants.Abilities))

	var race raceModel.Race
	if err := tx.Select("id", "ability_score_increase").First(&race, raceID).Error; err != nil {
		return nil, helper.DBError(err, "Race not found")
	}
	for k, v := range race.AbilityScoreIncrease.Data() {
		out[k] += v
	}

	if subraceID != nil {
		var sub raceModel.Subrace
		if err := tx.Select("id", "ability_score_increase").First(&sub, *subraceID).Error; err != nil {
			return nil, helper.DBError(err, "Subrace not found")
		}
		for k, v := range sub.AbilityScoreIncrease.Data() {
			out[k] += v
		}
	}
	return out, nil
}

// abilityIDs maps ability names to their seeded row ids.
func abilityIDs(tx *gorm.DB) (map[string]uint, error) {
	var rows []refModel.AbilityScore
	if err := tx.Find(&rows).Error; err != nil {
		return nil, helper.DBError(err, "")
	}
	out := make(map[string]uint, len(rows))
	for _, r := range rows {
		out[r.Name] = r.ID
	}
	return out, nil
}

// CreateAbilityScores writes the six breakdown rows of a new character.
func CreateAbilityScores(tx *gorm.DB, m *model.Character) error {
	ids, err := abilityIDs(tx)
	if err != nil {
		return err
	}
	bonuses, err := RacialBonuses(tx, m.RaceID, m.SubraceID)
	if err != nil {
		return err
	}

	rows := make([]model.CharacterAbilityScore, 0, len(constants.Abilities))
	for _, a := range constants.Abilities {
		id, ok := ids[a]
		if !ok {
			return apperrors.Internalf("ability score %q is not seeded", a)
		}
		rows = append(rows, model.CharacterAbilityScore{
			CharacterID:    m.ID,
			AbilityScoreID: id,
			BaseValue:      m.ScoreFor(a),
			RacialBonus:    bonuses[a],
		})
	}
	return helper.DBError(tx.Create(&rows).Error, "")
}

// SyncAbilityScores brings the breakdown rows in line with the character's
// base columns and, when recompute is set, its current racial bonuses.
// Missing rows are created.
func SyncAbilityScores(tx *gorm.DB, m *model.Character, recompute bool) error {
	ids, err := abilityIDs(tx)
	if err != nil {
		return err
	}
	var bonuses map[string]int
	if recompute {
		if bonuses, err = RacialBonuses(tx, m.RaceID, m.SubraceID); err != nil {
			return err
		}
	}

	for _, a := range constants.Abilities {
		var row model.CharacterAbilityScore
		err := tx.Where("character_id = ? AND ability_score_id = ?", m.ID, ids[a]).
			Limit(1).Find(&row).Error
		if err != nil {
			return helper.DBError(err, "")
		}
		if row.ID == 0 {
			row = model.CharacterAbilityScore{CharacterID: m.ID, AbilityScoreID: ids[a], RacialBonus: bonuses[a]}
		}
		row.BaseValue = m.ScoreFor(a)
		if recompute {
			row.RacialBonus = bonuses[a]
		}
		if err := tx.Omit("AbilityScore").Save(&row).Error; err != nil {
			return helper.DBError(err, "")
		}
	}
	return nil
}

// CheckOwner allows changes to unowned characters, by the owner and by
// superusers.
func CheckOwner(c *fiber.Ctx, m *model.Character) error {
	if m.UserID == nil {
		return nil
	}
	if uid, ok := helper.CurrentUserID(c); ok && uid == *m.UserID {
		return nil
	}
	if helper.IsSuperuser(c) {
		return nil
	}
	return apperrors.PermissionDenied(constants.OwnerError("character"))
}
