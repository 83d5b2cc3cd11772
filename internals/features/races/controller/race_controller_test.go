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

func dwarfBody() map[string]any {
	return map[string]any{
		"name":                   "Dwarf",
		"description":            "Bold and hardy.",
		"size":                   "medium",
		"speed":                  25,
		"ability_score_increase": map[string]int{"CON": 2},
		"languages":              []string{"Common", "Dwarvish"},
	}
}

func TestRaceAndSubraceLifecycle(t *testing.T) {
	app := testutils.NewTestApp(t)

	race := app.Post(api+"/races", dwarfBody())
	require.Equal(t, http.StatusCreated, race.Status, string(race.Raw))
	raceID := race.ID()
	assert.Equal(t, "Medium", race.Data()["size"])
	assert.Equal(t, "PHB", race.Data()["source_book"])
	assert.Equal(t, map[string]any{"constitution": float64(2)}, race.Data()["ability_score_increase"])
	assert.Empty(t, race.Data()["subraces"])

	sub := app.Post(api+"/subraces", map[string]any{
		"name":                   "Hill Dwarf",
		"description":            "Keen senses.",
		"race_id":                raceID,
		"ability_score_increase": map[string]int{"wisdom": 1},
	})
	require.Equal(t, http.StatusCreated, sub.Status, string(sub.Raw))
	subID := sub.ID()
	parent := sub.Data()["race"].(map[string]any)
	assert.Equal(t, "Dwarf", parent["name"])

	got := app.Get(fmt.Sprintf("%s/races/%d", api, raceID))
	require.Equal(t, http.StatusOK, got.Status)
	subs := got.Data()["subraces"].([]any)
	require.Len(t, subs, 1)
	assert.Equal(t, "Hill Dwarf", subs[0].(map[string]any)["name"])

	list := app.Get(fmt.Sprintf("%s/subraces?race_id=%d", api, raceID))
	require.Len(t, list.List(), 1)

	patched := app.Patch(fmt.Sprintf("%s/races/%d", api, raceID), map[string]any{"speed": 30})
	require.Equal(t, http.StatusOK, patched.Status)
	assert.EqualValues(t, 30, patched.Data()["speed"])
	assert.Equal(t, "Bold and hardy.", patched.Data()["description"])

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/races/%d", api, raceID)).Status)
	assert.Equal(t, http.StatusNotFound, app.Get(fmt.Sprintf("%s/races/%d", api, raceID)).Status)
	assert.Equal(t, http.StatusNotFound, app.Get(fmt.Sprintf("%s/subraces/%d", api, subID)).Status, "owned subraces cascade")
}

func TestRaceValidation(t *testing.T) {
	app := testutils.NewTestApp(t)

	body := dwarfBody()
	body["size"] = "Colossal"
	body["ability_score_increase"] = map[string]int{"luck": 1, "strength": 9}
	delete(body, "speed")

	res := app.Post(api+"/races", body)
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	errs := res.Errors()
	assert.Contains(t, errs, "size")
	assert.Contains(t, errs, "speed")
	assert.Contains(t, errs, "ability_score_increase")
	assert.Contains(t, errs, "ability_score_increase.strength")

	res = app.Post(api+"/subraces", map[string]any{"name": "Orphan", "description": "x", "race_id": 999})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "race_id")
}

func TestRaceNameIsUnique(t *testing.T) {
	app := testutils.NewTestApp(t)
	require.Equal(t, http.StatusCreated, app.Post(api+"/races", dwarfBody()).Status)
	assert.Equal(t, http.StatusConflict, app.Post(api+"/races", dwarfBody()).Status)
}

func TestRaceReferencedByCharacterCannotBeDeleted(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	hill := app.CreateSubrace(o.Race.ID, "Hill Dwarf", map[string]int{"wisdom": 1})

	char := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"subrace_id": hill.ID}))
	require.Equal(t, http.StatusCreated, char.Status, string(char.Raw))

	assert.Equal(t, http.StatusConflict, app.Delete(fmt.Sprintf("%s/races/%d", api, o.Race.ID)).Status)
	assert.Equal(t, http.StatusConflict, app.Delete(fmt.Sprintf("%s/subraces/%d", api, hill.ID)).Status)

	other := app.CreateRace("Elf", map[string]int{"dexterity": 2})
	moved := app.Patch(fmt.Sprintf("%s/subraces/%d", api, hill.ID), map[string]any{"race_id": other.ID})
	assert.Equal(t, http.StatusConflict, moved.Status, "a used subrace keeps its race")

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/characters/%d", api, char.ID())).Status)
	assert.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/races/%d", api, o.Race.ID)).Status)
}

func TestRaceProficiencies(t *testing.T) {
	app := testutils.NewTestApp(t)
	axe := app.CreateProficiency("Battleaxe", "weapon", nil)

	body := dwarfBody()
	body["proficiency_ids"] = []uint{axe.ID}
	race := app.Post(api+"/races", body)
	require.Equal(t, http.StatusCreated, race.Status, string(race.Raw))
	profs := race.Data()["proficiencies"].([]any)
	require.Len(t, profs, 1)
	assert.Equal(t, "Battleaxe", profs[0].(map[string]any)["name"])

	cleared := app.Patch(fmt.Sprintf("%s/races/%d", api, race.ID()), map[string]any{"proficiency_ids": []uint{}})
	require.Equal(t, http.StatusOK, cleared.Status)
	assert.Empty(t, cleared.Data()["proficiencies"])

	bad := app.Patch(fmt.Sprintf("%s/races/%d", api, race.ID()), map[string]any{"proficiency_ids": []uint{axe.ID, 404}})
	require.Equal(t, http.StatusUnprocessableEntity, bad.Status)
	assert.Contains(t, bad.Errors(), "proficiency_ids")
}
