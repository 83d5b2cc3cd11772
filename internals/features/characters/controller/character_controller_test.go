package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dndbuilder_backend/internals/testutils"
)

const api = "/api/v1"

func abilityRow(t *testing.T, rows []any, ability string) map[string]any {
	t.Helper()
	for _, r := range rows {
		m := r.(map[string]any)
		if m["ability"] == ability {
			return m
		}
	}
	t.Fatalf("ability %s missing from %v", ability, rows)
	return nil
}

func TestCreateCharacterComputesSheet(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()

	res := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"alignment": "lawful good"}))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	data := res.Data()

	assert.EqualValues(t, 1, data["level"])
	assert.EqualValues(t, 2, data["proficiency_bonus"])
	assert.Equal(t, "Lawful Good", data["alignment"])
	assert.Nil(t, data["user_id"])
	assert.Equal(t, "Dwarf", data["race"].(map[string]any)["name"])
	assert.Equal(t, "Fighter", data["class"].(map[string]any)["name"])
	assert.Equal(t, "Soldier", data["background"].(map[string]any)["name"])

	scores := data["ability_scores"].([]any)
	require.Len(t, scores, 6)
	con := abilityRow(t, scores, "constitution")
	assert.EqualValues(t, 14, con["base_value"])
	assert.EqualValues(t, 2, con["racial_bonus"])
	assert.EqualValues(t, 16, con["total"])
	assert.EqualValues(t, 3, con["modifier"])
	str := abilityRow(t, scores, "strength")
	assert.EqualValues(t, 0, str["racial_bonus"])
	assert.EqualValues(t, 2, str["modifier"])

	list := app.Get(api + "/characters")
	require.Equal(t, http.StatusOK, list.Status)
	require.Len(t, list.List(), 1)
}

func TestCreateCharacterValidation(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()

	res := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"hit_points": 8}))
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "hit_points")

	res = app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{
		"alignment": "Chaotic Awesome",
		"strength":  21,
		"level":     0,
	}))
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	errs := res.Errors()
	assert.Contains(t, errs, "alignment")
	assert.Contains(t, errs, "strength")

	res = app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"race_id": 999}))
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "race_id")

	elf := app.CreateRace("Elf", map[string]int{"dexterity": 2})
	highElf := app.CreateSubrace(elf.ID, "High Elf", map[string]int{"intelligence": 1})
	res = app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"subrace_id": highElf.ID}))
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "subrace_id")

	assert.Empty(t, app.Get(api+"/characters").List())
}

func TestSubraceBonusesStack(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	hill := app.CreateSubrace(o.Race.ID, "Hill Dwarf", map[string]int{"wisdom": 1})

	res := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"subrace_id": hill.ID}))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	wis := abilityRow(t, res.Data()["ability_scores"].([]any), "wisdom")
	assert.EqualValues(t, 1, wis["racial_bonus"])
	assert.EqualValues(t, 13, wis["total"])
	assert.EqualValues(t, 1, wis["modifier"])

	// dropping the subrace recomputes the racial bonuses
	patched := app.Patch(fmt.Sprintf("%s/characters/%d", api, res.ID()), map[string]any{"subrace_id": nil})
	require.Equal(t, http.StatusOK, patched.Status, string(patched.Raw))
	assert.Nil(t, patched.Data()["subrace_id"])
	wis = abilityRow(t, patched.Data()["ability_scores"].([]any), "wisdom")
	assert.EqualValues(t, 0, wis["racial_bonus"])
}

func TestUpdateCharacterHitPoints(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	id := app.Post(api+"/characters", testutils.CharacterBody(o, nil)).ID()
	path := fmt.Sprintf("%s/characters/%d", api, id)

	res := app.Patch(path, map[string]any{"hit_points": 13})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "hit_points")

	res = app.Patch(path, map[string]any{"max_hit_points": 10})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status, "lowering max below current hit points")

	res = app.Patch(path, map[string]any{"hit_points": 5, "level": 5, "constitution": 16})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	data := res.Data()
	assert.EqualValues(t, 5, data["hit_points"])
	assert.EqualValues(t, 3, data["proficiency_bonus"])
	assert.EqualValues(t, 16, data["constitution"])
	con := abilityRow(t, data["ability_scores"].([]any), "constitution")
	assert.EqualValues(t, 16, con["base_value"])
	assert.EqualValues(t, 18, con["total"])

	got := app.Get(path)
	assert.EqualValues(t, 12, got.Data()["max_hit_points"])
	assert.Equal(t, "Thorin", got.Data()["name"])
}

func TestCharacterOwnership(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	owner := app.CreateUser("owner", "password123", false)
	other := app.CreateUser("other", "password123", false)
	admin := app.CreateUser("admin", "password123", true)
	ownerTok, otherTok, adminTok := app.Token(owner.ID), app.Token(other.ID), app.Token(admin.ID)

	res := app.Post(api+"/characters", testutils.CharacterBody(o, nil), ownerTok)
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	assert.EqualValues(t, owner.ID, res.Data()["user_id"])
	path := fmt.Sprintf("%s/characters/%d", api, res.ID())

	anon := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"name": "Nobody"}))
	require.Equal(t, http.StatusCreated, anon.Status)

	assert.Equal(t, http.StatusOK, app.Get(path).Status, "reads are public")
	assert.Equal(t, http.StatusForbidden, app.Patch(path, map[string]any{"name": "Stolen"}, otherTok).Status)
	assert.Equal(t, http.StatusForbidden, app.Patch(path, map[string]any{"name": "Stolen"}).Status)
	assert.Equal(t, http.StatusForbidden, app.Delete(path, otherTok).Status)
	assert.Equal(t, http.StatusForbidden,
		app.Patch(path+"/ability-scores/str", map[string]any{"misc_bonus": 1}, otherTok).Status)

	res = app.Patch(path, map[string]any{"name": "Thorin II"}, ownerTok)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Thorin II", res.Data()["name"])
	assert.Equal(t, http.StatusOK, app.Patch(path, map[string]any{"level": 2}, adminTok).Status)

	anonPath := fmt.Sprintf("%s/characters/%d", api, anon.ID())
	assert.Equal(t, http.StatusOK, app.Patch(anonPath, map[string]any{"level": 3}, otherTok).Status, "unowned characters are open")

	assert.Equal(t, http.StatusUnauthorized, app.Get(api+"/characters?mine=true").Status)
	mine := app.Get(api+"/characters?mine=true", ownerTok)
	require.Equal(t, http.StatusOK, mine.Status)
	require.Len(t, mine.List(), 1)
	assert.Equal(t, "Thorin II", mine.List()[0].(map[string]any)["name"])
	assert.Len(t, app.Get(api+"/characters", "not-a-token").List(), 2, "bad tokens fall back to anonymous")

	require.Equal(t, http.StatusOK, app.Delete(path, ownerTok).Status)
	assert.Equal(t, http.StatusNotFound, app.Get(path).Status)
}

func TestCharacterListFilters(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	wizard := app.CreateClass("Wizard", "d6")

	require.Equal(t, http.StatusCreated, app.Post(api+"/characters", testutils.CharacterBody(o, nil)).Status)
	require.Equal(t, http.StatusCreated, app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{
		"name": "Elminster", "class_id": wizard.ID,
	})).Status)

	res := app.Get(fmt.Sprintf("%s/characters?class_id=%d", api, wizard.ID))
	require.Equal(t, http.StatusOK, res.Status)
	require.Len(t, res.List(), 1)
	assert.Equal(t, "Elminster", res.List()[0].(map[string]any)["name"])

	res = app.Get(api + "/characters?search=THOR")
	require.Len(t, res.List(), 1)

	res = app.Get(api + "/characters?sort_by=name&order=asc&per_page=1")
	require.Len(t, res.List(), 1)
	assert.Equal(t, "Elminster", res.List()[0].(map[string]any)["name"])

	assert.Equal(t, http.StatusUnprocessableEntity, app.Get(api+"/characters?class_id=abc").Status)
}

func TestAbilityScoreEndpoints(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	id := app.Post(api+"/characters", testutils.CharacterBody(o, nil)).ID()
	base := fmt.Sprintf("%s/characters/%d/ability-scores", api, id)

	list := app.Get(base)
	require.Equal(t, http.StatusOK, list.Status)
	assert.Len(t, list.List(), 6)

	con := app.Get(base + "/CON")
	require.Equal(t, http.StatusOK, con.Status)
	assert.Equal(t, "constitution", con.Data()["ability"])
	assert.EqualValues(t, 16, con.Data()["total"])

	res := app.Patch(base+"/constitution", map[string]any{"asi_bonus": 2, "base_value": 15})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	assert.EqualValues(t, 15, res.Data()["base_value"])
	assert.EqualValues(t, 2, res.Data()["racial_bonus"])
	assert.EqualValues(t, 2, res.Data()["asi_bonus"])
	assert.EqualValues(t, 19, res.Data()["total"])
	assert.EqualValues(t, 4, res.Data()["modifier"])

	sheet := app.Get(fmt.Sprintf("%s/characters/%d", api, id))
	assert.EqualValues(t, 15, sheet.Data()["constitution"], "base column follows base_value")

	assert.Equal(t, http.StatusUnprocessableEntity, app.Patch(base+"/constitution", map[string]any{}).Status)
	assert.Equal(t, http.StatusUnprocessableEntity, app.Patch(base+"/constitution", map[string]any{"base_value": 25}).Status)
	assert.Equal(t, http.StatusUnprocessableEntity, app.Get(base+"/luck").Status)
	assert.Equal(t, http.StatusNotFound, app.Get(fmt.Sprintf("%s/characters/999/ability-scores/str", api)).Status)
}

func TestSkillEndpoints(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	strength, dexterity := "strength", "dexterity"
	athletics := app.CreateProficiency("Athletics", "skill", &strength)
	stealth := app.CreateProficiency("Stealth", "skill", &dexterity)
	armor := app.CreateProficiency("Heavy Armor", "armor", nil)

	id := app.Post(api+"/characters", testutils.CharacterBody(o, nil)).ID()
	base := fmt.Sprintf("%s/characters/%d/skills", api, id)

	res := app.Put(base, map[string]any{"proficiency_id": athletics.ID})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	assert.Equal(t, "Athletics", res.Data()["name"])
	assert.Equal(t, "proficient", res.Data()["proficiency_level"])
	assert.EqualValues(t, 4, res.Data()["modifier"])

	res = app.Put(base, map[string]any{"proficiency_id": athletics.ID, "proficiency_level": "Expertise"})
	require.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 6, res.Data()["modifier"])

	res = app.Put(base, map[string]any{"proficiency_id": stealth.ID, "proficiency_level": "not_proficient"})
	require.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 0, res.Data()["modifier"])

	res = app.Put(base, map[string]any{"proficiency_id": armor.ID})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "proficiency_id")
	assert.Equal(t, http.StatusUnprocessableEntity, app.Put(base, map[string]any{"proficiency_id": 999}).Status)
	assert.Equal(t, http.StatusUnprocessableEntity,
		app.Put(base, map[string]any{"proficiency_id": athletics.ID, "proficiency_level": "master"}).Status)

	list := app.Get(base)
	require.Equal(t, http.StatusOK, list.Status)
	require.Len(t, list.List(), 2)
	assert.Equal(t, "Athletics", list.List()[0].(map[string]any)["name"])

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/%d", base, athletics.ID)).Status)
	assert.Equal(t, http.StatusNotFound, app.Delete(fmt.Sprintf("%s/%d", base, athletics.ID)).Status)
	assert.Len(t, app.Get(base).List(), 1)
}

func TestDeleteCharacterRemovesSheetRows(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	strength := "strength"
	athletics := app.CreateProficiency("Athletics", "skill", &strength)

	res := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{
		"proficiency_ids": []uint{athletics.ID},
	}))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	require.Len(t, res.Data()["proficiencies"].([]any), 1)
	id := res.ID()
	require.Equal(t, http.StatusOK, app.Put(fmt.Sprintf("%s/characters/%d/skills", api, id),
		map[string]any{"proficiency_id": athletics.ID}).Status)

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/characters/%d", api, id)).Status)

	for _, table := range []string{"character_ability_scores", "character_skills", "character_proficiency"} {
		var n int64
		require.NoError(t, app.DB.Table(table).Where("character_id = ?", id).Count(&n).Error)
		assert.Zero(t, n, table)
	}
	assert.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/races/%d", api, o.Race.ID)).Status, "race is free again")
}
