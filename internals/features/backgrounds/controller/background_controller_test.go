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

func TestBackgroundLifecycle(t *testing.T) {
	app := testutils.NewTestApp(t)
	insight := app.CreateProficiency("Insight", "skill", nil)
	religion := app.CreateProficiency("Religion", "skill", nil)

	created := app.Post(api+"/backgrounds", map[string]any{
		"name":        "Acolyte",
		"description": "You have spent your life in the service of a temple.",
		"equipment":   []string{"Holy symbol", "Prayer book"},
		"characteristics": map[string]any{
			"ideals": []string{"Tradition."},
		},
		"feature": map[string]any{
			"name":        "Shelter of the Faithful",
			"description": "Free healing at temples of your faith.",
		},
		"proficiency_ids": []uint{insight.ID, religion.ID},
	})
	require.Equal(t, http.StatusCreated, created.Status, string(created.Raw))
	id := created.ID()
	data := created.Data()
	assert.Equal(t, "Shelter of the Faithful", data["feature"].(map[string]any)["name"])
	assert.Len(t, data["proficiencies"], 2)
	ch := data["characteristics"].(map[string]any)
	assert.Equal(t, []any{"Tradition."}, ch["ideals"])
	assert.Equal(t, []any{}, ch["flaws"])

	renamed := app.Patch(fmt.Sprintf("%s/backgrounds/%d", api, id), map[string]any{
		"feature": map[string]any{"name": "Temple Shelter", "description": "Same, renamed."},
	})
	require.Equal(t, http.StatusOK, renamed.Status, string(renamed.Raw))
	assert.Equal(t, "Temple Shelter", renamed.Data()["feature"].(map[string]any)["name"])
	assert.Len(t, renamed.Data()["proficiencies"], 2, "absent proficiency_ids are untouched")

	removed := app.Patch(fmt.Sprintf("%s/backgrounds/%d", api, id), `{"feature": null}`)
	require.Equal(t, http.StatusOK, removed.Status, string(removed.Raw))
	assert.Nil(t, removed.Data()["feature"])

	require.Equal(t, http.StatusOK, app.Delete(fmt.Sprintf("%s/backgrounds/%d", api, id)).Status)
	assert.Equal(t, http.StatusNotFound, app.Get(fmt.Sprintf("%s/backgrounds/%d", api, id)).Status)
}

func TestBackgroundValidationAndSearch(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Post(api+"/backgrounds", map[string]any{"name": "Nameless"})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "description")

	app.CreateBackground("Soldier")
	app.CreateBackground("Sage")
	app.CreateBackground("Criminal")

	found := app.Get(api + "/backgrounds?search=s")
	require.Equal(t, http.StatusOK, found.Status)
	names := []string{}
	for _, row := range found.List() {
		names = append(names, row.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"Sage", "Soldier"}, names)
}

func TestBackgroundInUseCannotBeDeleted(t *testing.T) {
	app := testutils.NewTestApp(t)
	o := app.CreateOrigin()
	require.Equal(t, http.StatusCreated, app.Post(api+"/characters", testutils.CharacterBody(o, nil)).Status)

	res := app.Delete(fmt.Sprintf("%s/backgrounds/%d", api, o.Background.ID))
	assert.Equal(t, http.StatusConflict, res.Status)
}
