package model

import (
	"time"

	refModel "dndbuilder_backend/internals/features/reference/model"
	"dndbuilder_backend/internals/rules"
)

// CharacterAbilityScore holds one ability of one character with its bonuses.
type CharacterAbilityScore struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CharacterID    uint      `gorm:"not null;uniqueIndex:idx_character_ability" json:"character_id"`
	AbilityScoreID uint      `gorm:"not null;uniqueIndex:idx_character_ability" json:"ability_score_id"`
	BaseValue      int       `gorm:"not null" json:"base_value"`
	RacialBonus    int       `gorm:"not null;default:0" json:"racial_bonus"`
	AsiBonus       int       `gorm:"not null;default:0" json:"asi_bonus"`
	MiscBonus      int       `gorm:"not null;default:0" json:"misc_bonus"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	AbilityScore *refModel.AbilityScore `json:"ability_score,omitempty"`
}

func (CharacterAbilityScore) TableName() string {
	return "character_ability_scores"
}

func (s CharacterAbilityScore) Total() int {
	return rules.AbilityTotal(s.BaseValue, s.RacialBonus, s.AsiBonus, s.MiscBonus)
}

func (s CharacterAbilityScore) Modifier() int {
	return rules.AbilityModifier(s.Total())
}
