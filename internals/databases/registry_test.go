package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "dndbuilder_backend/internals/databases"
	apperrors "dndbuilder_backend/internals/errors"
	charModel "dndbuilder_backend/internals/features/characters/model"
	classModel "dndbuilder_backend/internals/features/classes/model"
	refModel "dndbuilder_backend/internals/features/reference/model"
	"dndbuilder_backend/internals/testutils"
)

func TestRegistryOrder(t *testing.T) {
	reg := database.NewRegistry()

	pos := map[string]int{}
	for i, e := range reg.Entries() {
		pos[e.Name] = i
	}
	for _, e := range reg.Entries() {
		for _, ref := range e.Refs {
			assert.Less(t, pos[ref.Entity], pos[e.Name], "%s must migrate after %s", e.Name, ref.Entity)
		}
	}

	table, ok := reg.Table("character")
	require.True(t, ok)
	assert.Equal(t, "characters", table)
	assert.ElementsMatch(t,
		[]string{"race_proficiency", "class_proficiency", "background_proficiency", "character_proficiency"},
		reg.JoinTables())
	char, ok := reg.Lookup("character")
	require.True(t, ok)
	assert.Contains(t, char.Refs, database.Ref{Column: "user_id", Entity: "user", Policy: database.SetNull})
	_, ok = reg.Lookup("dragon")
	assert.False(t, ok)
}

func TestMigrateSeedsAbilityScores(t *testing.T) {
	db := testutils.NewTestDB(t)

	require.NoError(t, database.Migrate(db, database.NewRegistry()), "migrating twice is harmless")
	var scores []refModel.AbilityScore
	require.NoError(t, db.Order("id").Find(&scores).Error)
	require.Len(t, scores, 6)
	assert.Equal(t, "strength", scores[0].Name)
	assert.Equal(t, "STR", scores[0].Abbreviation)
}

func TestReleasePolicies(t *testing.T) {
	app := testutils.NewTestApp(t)
	db := app.DB
	reg := database.NewRegistry()

	o := app.CreateOrigin()
	sub := app.CreateSubclass(o.Class.ID, "Champion")
	feature := classModel.ClassFeature{Name: "Improved Critical", Description: "19-20", Level: 3, ClassID: o.Class.ID, SubclassID: &sub.ID}
	require.NoError(t, db.Create(&feature).Error)

	owner := app.CreateUser("bilbo", "baggins123", false)
	char := charModel.Character{
		Name: "Bilbo", UserID: &owner.ID, Level: 1, Alignment: "Neutral Good",
		RaceID: o.Race.ID, ClassID: o.Class.ID, BackgroundID: o.Background.ID,
		HitPoints: 8, MaxHitPoints: 8, ArmorClass: 12,
		Strength: 8, Dexterity: 14, Constitution: 12, Intelligence: 12, Wisdom: 10, Charisma: 14,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&char).Error)

	err := db.Transaction(func(tx *gorm.DB) error { return reg.Release(tx, "class", o.Class.ID) })
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), err.Error())

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error { return reg.Release(tx, "user", owner.ID) }))
	var orphan charModel.Character
	require.NoError(t, db.First(&orphan, char.ID).Error)
	assert.Nil(t, orphan.UserID)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := reg.Release(tx, "character", char.ID); err != nil {
			return err
		}
		return tx.Delete(&charModel.Character{}, char.ID).Error
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := reg.Release(tx, "class", o.Class.ID); err != nil {
			return err
		}
		return tx.Delete(&classModel.Class{}, o.Class.ID).Error
	}))

	var n int64
	require.NoError(t, db.Model(&classModel.Subclass{}).Where("id = ?", sub.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&classModel.ClassFeature{}).Where("id = ?", feature.ID).Count(&n).Error)
	assert.Zero(t, n)
}
