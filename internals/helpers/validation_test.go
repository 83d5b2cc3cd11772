package helper

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dndbuilder_backend/internals/errors"
)

type sampleAbility struct {
	Name string `json:"name" validate:"required,ability"`
}

type sampleRequest struct {
	Name      string          `json:"name" validate:"required,max=5"`
	Level     int             `json:"level" validate:"min=1,max=20"`
	Alignment string          `json:"alignment" validate:"alignment"`
	HitDie    string          `json:"hit_die" validate:"hitdie"`
	Abilities []sampleAbility `json:"abilities" validate:"dive"`
	HP        int             `json:"hit_points"`
	MaxHP     int             `json:"max_hit_points"`
}

func (r *sampleRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.HP > r.MaxHP {
		vb.Field("hit_points", "must be less than or equal to max_hit_points")
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	fields, ok := appErr.Meta["validation_errors"].(map[string][]string)
	require.True(t, ok)
	return fields
}

func TestValidateStructReportsJSONFields(t *testing.T) {
	v := NewValidator()
	req := &sampleRequest{
		Name:      "Bartholomew",
		Level:     0,
		Alignment: "Chaotic Stupid",
		HitDie:    "d7",
		Abilities: []sampleAbility{{Name: "STR"}, {Name: "luck"}},
		HP:        12,
		MaxHP:     10,
	}

	fields := validationFields(t, ValidateStruct(v, req))
	assert.Equal(t, []string{"must contain at most 5 item(s) or character(s)"}, fields["name"])
	assert.Equal(t, []string{"must be greater than or equal to 1"}, fields["level"])
	assert.Contains(t, fields["alignment"][0], "Lawful Good")
	assert.Contains(t, fields["hit_die"][0], "d12")
	assert.Contains(t, fields, "abilities[1].name")
	assert.NotContains(t, fields, "abilities[0].name")
	assert.Equal(t, []string{"must be less than or equal to max_hit_points"}, fields["hit_points"])
}

func TestValidateStructPasses(t *testing.T) {
	req := &sampleRequest{
		Name:      "Bob",
		Level:     3,
		Alignment: "True Neutral",
		HitDie:    "d8",
		Abilities: []sampleAbility{{Name: "wisdom"}},
		HP:        5,
		MaxHP:     5,
	}
	assert.NoError(t, ValidateStruct(NewValidator(), req))
}

func TestOptionalTracksPresence(t *testing.T) {
	var body struct {
		SubraceID Optional[*uint]          `json:"subrace_id"`
		Spells    Optional[map[string]any] `json:"spells"`
	}

	require.NoError(t, sonic.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.SubraceID.Present)
	assert.False(t, body.Spells.Present)

	require.NoError(t, sonic.Unmarshal([]byte(`{"subrace_id":null,"spells":{"cantrips":["Light"]}}`), &body))
	assert.True(t, body.SubraceID.Present)
	assert.Nil(t, body.SubraceID.Value)
	assert.True(t, body.Spells.Present)
	assert.Equal(t, []any{"Light"}, body.Spells.Value["cantrips"])

	require.NoError(t, sonic.Unmarshal([]byte(`{"subrace_id":7}`), &body))
	require.NotNil(t, body.SubraceID.Value)
	assert.Equal(t, uint(7), *body.SubraceID.Value)

	want := Some(map[string]any{"cantrips": []any{"Light"}})
	assert.Equal(t, want.Value, body.Spells.Value)
	assert.True(t, want.Present)
}
