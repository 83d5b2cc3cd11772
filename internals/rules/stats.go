// Package rules holds the 5e derived-stat formulas. Everything here is pure.
package rules

import (
	"fmt"

	"dndbuilder_backend/internals/constants"
)

const (
	MinLevel = 1
	MaxLevel = 20
)

// AbilityModifier returns floor((total-10)/2). Go's integer division
// truncates toward zero, so odd negative numerators are adjusted down.
func AbilityModifier(total int) int {
	n := total - 10
	if n < 0 && n%2 != 0 {
		return n/2 - 1
	}
	return n / 2
}

// ProficiencyBonus returns (level-1)/4 + 2 for levels 1..20.
func ProficiencyBonus(level int) (int, error) {
	if level < MinLevel || level > MaxLevel {
		return 0, fmt.Errorf("level %d out of range [%d,%d]", level, MinLevel, MaxLevel)
	}
	return (level-1)/4 + 2, nil
}

// ProficiencyMultiplier is 0, 1 or 2 for not proficient, proficient and
// expertise. Unknown levels count as not proficient.
func ProficiencyMultiplier(level constants.ProficiencyLevel) int {
	switch level {
	case constants.ProficiencyLevelProficient:
		return 1
	case constants.ProficiencyLevelExpertise:
		return 2
	default:
		return 0
	}
}

func SkillModifier(abilityModifier, proficiencyBonus int, level constants.ProficiencyLevel) int {
	return abilityModifier + proficiencyBonus*ProficiencyMultiplier(level)
}

// AbilityTotal sums a score breakdown.
func AbilityTotal(base, racial, asi, misc int) int {
	return base + racial + asi + misc
}
