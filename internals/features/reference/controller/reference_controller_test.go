package controller_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dndbuilder_backend/internals/testutils"
)

const api = "/api/v1"

func TestAbilityScoresAreSeeded(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Get(api + "/ability-scores")
	require.Equal(t, http.StatusOK, res.Status)
	rows := res.List()
	require.Len(t, rows, 6)
	first := rows[0].(map[string]any)
	assert.Equal(t, "strength", first["name"])
	assert.Equal(t, "STR", first["abbreviation"])
}

func TestAbilityScoreLookupByIDOrName(t *testing.T) {
	app := testutils.NewTestApp(t)

	byName := app.Get(api + "/ability-scores/DEX")
	require.Equal(t, http.StatusOK, byName.Status)
	assert.Equal(t, "dexterity", byName.Data()["name"])

	byID := app.Get(fmt.Sprintf("%s/ability-scores/%d", api, byName.ID()))
	require.Equal(t, http.StatusOK, byID.Status)
	assert.Equal(t, "DEX", byID.Data()["abbreviation"])

	assert.Equal(t, http.StatusNotFound, app.Get(api+"/ability-scores/luck").Status)
}

func TestProficiencyCRUD(t *testing.T) {
	app := testutils.NewTestApp(t)

	created := app.Post(api+"/proficiencies", map[string]any{
		"name":          "Athletics",
		"type":          "Skill",
		"ability_score": "STR",
		"description":   "Climb, jump and swim.",
	})
	require.Equal(t, http.StatusCreated, created.Status, string(created.Raw))
	id := created.ID()
	assert.Equal(t, "skill", created.Data()["type"])
	assert.Equal(t, "strength", created.Data()["ability_score"])

	got := app.Get(fmt.Sprintf("%s/proficiencies/%d", api, id))
	require.Equal(t, http.StatusOK, got.Status)
	assert.Equal(t, "Athletics", got.Data()["name"])

	updated := app.Patch(fmt.Sprintf("%s/proficiencies/%d", api, id), map[string]any{"name": "Athletics (STR)"})
	require.Equal(t, http.StatusOK, updated.Status)
	assert.Equal(t, "Athletics (STR)", updated.Data()["name"])
	assert.Equal(t, "skill", updated.Data()["type"], "absent fields are untouched")

	dup := app.Post(api+"/proficiencies", map[string]any{"name": "Athletics (STR)", "type": "skill"})
	assert.Equal(t, http.StatusConflict, dup.Status)

	del := app.Delete(fmt.Sprintf("%s/proficiencies/%d", api, id))
	require.Equal(t, http.StatusOK, del.Status)
	assert.Equal(t, http.StatusNotFound, app.Get(fmt.Sprintf("%s/proficiencies/%d", api, id)).Status)
	assert.Equal(t, http.StatusNotFound, app.Delete(fmt.Sprintf("%s/proficiencies/%d", api, id)).Status)
}

func TestProficiencyValidation(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Post(api+"/proficiencies", map[string]any{"name": "Juggling", "type": "hobby"})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "type")

	res = app.Post(api+"/proficiencies", map[string]any{"type": "tool"})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "name")

	res = app.Post(api+"/proficiencies", "{not json")
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "body")

	assert.Equal(t, http.StatusUnprocessableEntity, app.Get(api+"/proficiencies?type=hobby").Status)
}

func TestProficiencyListFiltersAndPaginates(t *testing.T) {
	app := testutils.NewTestApp(t)
	dex := "dexterity"
	app.CreateProficiency("Stealth", "skill", &dex)
	app.CreateProficiency("Acrobatics", "skill", &dex)
	app.CreateProficiency("Longsword", "weapon", nil)

	skills := app.Get(api + "/proficiencies?type=skill")
	require.Equal(t, http.StatusOK, skills.Status)
	rows := skills.List()
	require.Len(t, rows, 2)
	assert.Equal(t, "Acrobatics", rows[0].(map[string]any)["name"], "sorted by name")

	search := app.Get(api + "/proficiencies?search=SWORD")
	require.Len(t, search.List(), 1)

	paged := app.Get(api + "/proficiencies?per_page=2&page=2")
	require.Len(t, paged.List(), 1)
	pagination := paged.Body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["total"])
	assert.Equal(t, true, pagination["has_prev"])
}

func TestDeletingProficiencyKeepsOwners(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	wis := "wisdom"
	perception := app.CreateProficiency("Perception", "skill", &wis)

	char := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{
		"proficiency_ids": []uint{perception.ID},
	}))
	require.Equal(t, http.StatusCreated, char.Status, string(char.Raw))
	charID := char.ID()
	require.Equal(t, http.StatusOK, app.Put(fmt.Sprintf("%s/characters/%d/skills", api, charID), map[string]any{
		"proficiency_id": perception.ID,
	}).Status)

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/proficiencies/%d", api, perception.ID)).Status)

	after := app.Get(fmt.Sprintf("%s/characters/%d", api, charID))
	require.Equal(t, http.StatusOK, after.Status)
	assert.Empty(t, after.Data()["proficiencies"])
	assert.Empty(t, after.Data()["skills"])
}

func TestProficiencyReadsAreCached(t *testing.T) {
	rc, _ := testutils.CreateTestRedisCache(t, time.Minute)
	app := testutils.NewTestApp(t, testutils.WithCache(rc))
	app.CreateProficiency("Smith's Tools", "tool", nil)

	first := app.Get(api + "/proficiencies")
	require.Len(t, first.List(), 1)

	// written behind the API's back: the cached page is still served
	app.CreateProficiency("Mason's Tools", "tool", nil)
	assert.Len(t, app.Get(api+"/proficiencies").List(), 1)

	// any API write invalidates the kind
	require.Equal(t, http.StatusCreated, app.Post(api+"/proficiencies", map[string]any{"name": "Brewer's Supplies", "type": "tool"}).Status)
	assert.Len(t, app.Get(api+"/proficiencies").List(), 3)
}
