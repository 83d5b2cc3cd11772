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

func wizardBody() map[string]any {
	return map[string]any{
		"name":                 "Wizard",
		"description":          "A scholarly magic-user.",
		"hit_die":              "D6",
		"primary_ability":      []string{"INT"},
		"saving_throws":        []string{"intelligence", "wis"},
		"spellcasting_ability": "Intelligence",
	}
}

func feature(t *testing.T, app *testutils.TestApp, body map[string]any) testutils.Response {
	t.Helper()
	if _, ok := body["description"]; !ok {
		body["description"] = "feature text"
	}
	return app.Post(api+"/class-features", body)
}

func TestClassLifecycleGroupsFeaturesByLevel(t *testing.T) {
	app := testutils.NewTestApp(t)

	class := app.Post(api+"/classes", wizardBody())
	require.Equal(t, http.StatusCreated, class.Status, string(class.Raw))
	classID := class.ID()
	data := class.Data()
	assert.Equal(t, "d6", data["hit_die"])
	assert.Equal(t, []any{"intelligence"}, data["primary_ability"])
	assert.Equal(t, []any{"intelligence", "wisdom"}, data["saving_throws"])
	assert.Equal(t, true, data["is_spellcaster"])
	assert.Empty(t, data["features_by_level"])

	sub := app.Post(api+"/subclasses", map[string]any{
		"name":        "School of Evocation",
		"description": "Elemental effects.",
		"class_id":    classID,
	})
	require.Equal(t, http.StatusCreated, sub.Status, string(sub.Raw))
	subID := sub.ID()

	require.Equal(t, http.StatusCreated, feature(t, app, map[string]any{"name": "Spellcasting", "level": 1, "class_id": classID}).Status)
	require.Equal(t, http.StatusCreated, feature(t, app, map[string]any{"name": "Arcane Recovery", "level": 1, "class_id": classID}).Status)
	require.Equal(t, http.StatusCreated, feature(t, app, map[string]any{"name": "Arcane Tradition", "level": 2, "class_id": classID}).Status)
	require.Equal(t, http.StatusCreated, feature(t, app, map[string]any{"name": "Sculpt Spells", "level": 2, "class_id": classID, "subclass_id": subID}).Status)

	got := app.Get(fmt.Sprintf("%s/classes/%d", api, classID))
	require.Equal(t, http.StatusOK, got.Status)
	byLevel := got.Data()["features_by_level"].(map[string]any)
	require.Len(t, byLevel["1"], 2)
	require.Len(t, byLevel["2"], 1, "subclass features stay with the subclass")
	assert.Equal(t, "Spellcasting", byLevel["1"].([]any)[0].(map[string]any)["name"])
	subs := got.Data()["subclasses"].([]any)
	require.Len(t, subs, 1)

	gotSub := app.Get(fmt.Sprintf("%s/subclasses/%d", api, subID))
	require.Equal(t, http.StatusOK, gotSub.Status)
	assert.Equal(t, "Wizard", gotSub.Data()["class"].(map[string]any)["name"])
	subByLevel := gotSub.Data()["features_by_level"].(map[string]any)
	require.Len(t, subByLevel["2"], 1)

	lvl := app.Get(fmt.Sprintf("%s/class-features?class_id=%d&level=1", api, classID))
	require.Equal(t, http.StatusOK, lvl.Status)
	assert.Len(t, lvl.List(), 2)

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/classes/%d", api, classID)).Status)
	assert.Equal(t, http.StatusNotFound, app.Get(fmt.Sprintf("%s/subclasses/%d", api, subID)).Status)
	assert.Empty(t, app.Get(api+"/class-features").List(), "features cascade with their class")
}

func TestClassValidation(t *testing.T) {
	app := testutils.NewTestApp(t)

	body := wizardBody()
	body["hit_die"] = "d7"
	body["saving_throws"] = []string{"luck"}
	body["spellcasting_ability"] = "sanity"
	res := app.Post(api+"/classes", body)
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	errs := res.Errors()
	assert.Contains(t, errs, "hit_die")
	assert.Contains(t, errs, "spellcasting_ability")
}

func TestClassFeatureSubclassMustBelongToClass(t *testing.T) {
	app := testutils.NewTestApp(t)
	fighter := app.CreateClass("Fighter", "d10")
	rogue := app.CreateClass("Rogue", "d8")
	thief := app.CreateSubclass(rogue.ID, "Thief")

	res := feature(t, app, map[string]any{"name": "Fast Hands", "level": 3, "class_id": fighter.ID, "subclass_id": thief.ID})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "subclass_id")

	res = feature(t, app, map[string]any{"name": "Fast Hands", "level": 21, "class_id": rogue.ID})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "level")

	res = feature(t, app, map[string]any{"name": "Fast Hands", "level": 3, "class_id": rogue.ID, "subclass_id": thief.ID})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))

	patched := app.Patch(fmt.Sprintf("%s/class-features/%d", api, res.ID()), map[string]any{"level": 9})
	require.Equal(t, http.StatusOK, patched.Status)
	assert.EqualValues(t, 9, patched.Data()["level"])

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/class-features/%d", api, res.ID())).Status)
	assert.Equal(t, http.StatusNotFound, app.Delete(fmt.Sprintf("%s/class-features/%d", api, res.ID())).Status)
}

func TestClassReferencedByCharacterCannotBeDeleted(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	champion := app.CreateSubclass(o.Class.ID, "Champion")

	char := app.Post(api+"/characters", testutils.CharacterBody(o, map[string]any{"subclass_id": champion.ID}))
	require.Equal(t, http.StatusCreated, char.Status, string(char.Raw))

	assert.Equal(t, http.StatusConflict, app.Delete(fmt.Sprintf("%s/classes/%d", api, o.Class.ID)).Status)
	assert.Equal(t, http.StatusConflict, app.Delete(fmt.Sprintf("%s/subclasses/%d", api, champion.ID)).Status)
}
