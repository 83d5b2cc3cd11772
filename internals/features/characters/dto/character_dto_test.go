package dto

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"dndbuilder_backend/internals/features/characters/model"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(flags)
	})
	return &buf
}

func TestCharacterResponseProficiencyBonus(t *testing.T) {
	buf := captureLog(t)

	resp := ToCharacterResponse(model.Character{ID: 7, Level: 5})
	assert.Equal(t, 3, resp.ProficiencyBonus)
	assert.Empty(t, buf.String())

	resp = ToCharacterResponse(model.Character{ID: 9, Level: 42})
	assert.Zero(t, resp.ProficiencyBonus)
	assert.Contains(t, buf.String(), "[WARN] character 9")
}
