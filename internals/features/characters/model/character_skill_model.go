package model

import (
	"time"

	refModel "dndbuilder_backend/internals/features/reference/model"
)

// CharacterSkill records how proficient a character is with a skill.
type CharacterSkill struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CharacterID      uint      `gorm:"not null;uniqueIndex:idx_character_skill" json:"character_id"`
	ProficiencyID    uint      `gorm:"not null;uniqueIndex:idx_character_skill;index" json:"proficiency_id"`
	ProficiencyLevel string    `gorm:"size:20;not null;default:'not_proficient'" json:"proficiency_level"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Proficiency *refModel.Proficiency `json:"proficiency,omitempty"`
}

func (CharacterSkill) TableName() string {
	return "character_skills"
}
