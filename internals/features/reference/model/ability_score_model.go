package model

import (
	"time"

	"dndbuilder_backend/internals/constants"
)

// AbilityScore is immutable reference data: one row per ability.
type AbilityScore struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Abbreviation string    `gorm:"size:3;not null" json:"abbreviation"`
	Description  string    `gorm:"size:500;not null" json:"description"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AbilityScore) TableName() string {
	return "ability_scores"
}

var abilityDescriptions = map[string]string{
	constants.AbilityStrength:     "Physical power: athletics, lifting, carrying and melee attacks.",
	constants.AbilityDexterity:    "Agility and reflexes: balance, stealth, initiative and ranged attacks.",
	constants.AbilityConstitution: "Health and stamina: hit points and resisting poison or exhaustion.",
	constants.AbilityIntelligence: "Reasoning and memory: arcana, history, investigation and lore.",
	constants.AbilityWisdom:       "Perception and insight: awareness, intuition and willpower.",
	constants.AbilityCharisma:     "Force of personality: persuasion, deception and performance.",
}

// DefaultAbilityScores returns the six rows seeded by migration, in sheet order.
func DefaultAbilityScores() []AbilityScore {
	out := make([]AbilityScore, 0, len(constants.Abilities))
	for _, name := range constants.Abilities {
		out = append(out, AbilityScore{
			Name:         name,
			Abbreviation: constants.AbilityAbbreviations[name],
			Description:  abilityDescriptions[name],
		})
	}
	return out
}
