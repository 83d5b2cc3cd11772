package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dndbuilder_backend/internals/constants"
	"dndbuilder_backend/internals/rules"
)

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func TestAbilityModifier(t *testing.T) {
	cases := map[int]int{
		1:  -5,
		7:  -2,
		8:  -1,
		9:  -1,
		10: 0,
		11: 0,
		12: 1,
		20: 5,
		30: 10,
	}
	for total, want := range cases {
		assert.Equal(t, want, rules.AbilityModifier(total), "total=%d", total)
	}
}

func TestAbilityModifierMatchesFloorDivision(t *testing.T) {
	for total := -40; total <= 40; total++ {
		assert.Equal(t, floorDiv(total-10, 2), rules.AbilityModifier(total), "total=%d", total)
	}
}

func TestProficiencyBonus(t *testing.T) {
	want := []int{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 6, 6, 6, 6}
	for level := 1; level <= 20; level++ {
		got, err := rules.ProficiencyBonus(level)
		require.NoError(t, err)
		assert.Equal(t, want[level-1], got, "level=%d", level)
		assert.Equal(t, (level-1)/4+2, got)
	}
}

func TestProficiencyBonusRejectsOutOfRange(t *testing.T) {
	for _, level := range []int{-1, 0, 21, 100} {
		_, err := rules.ProficiencyBonus(level)
		assert.Error(t, err, "level=%d", level)
	}
}

func TestSkillModifier(t *testing.T) {
	tests := []struct {
		level constants.ProficiencyLevel
		want  int
	}{
		{constants.ProficiencyLevelNotProficient, 3},
		{constants.ProficiencyLevelProficient, 5},
		{constants.ProficiencyLevelExpertise, 7},
		{constants.ProficiencyLevel("bogus"), 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, rules.SkillModifier(3, 2, tt.level))
		})
	}
}

func TestAbilityTotal(t *testing.T) {
	assert.Equal(t, 17, rules.AbilityTotal(14, 2, 1, 0))
	assert.Equal(t, 3, rules.AbilityModifier(rules.AbilityTotal(14, 2, 1, 0)))
}
