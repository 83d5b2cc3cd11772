package model

import (
	"time"

	"gorm.io/datatypes"

	refModel "dndbuilder_backend/internals/features/reference/model"
)

type Class struct {
	ID                    uint                        `gorm:"primaryKey" json:"id"`
	Name                  string                      `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description           string                      `gorm:"type:text;not null" json:"description"`
	HitDie                string                      `gorm:"size:4;not null" json:"hit_die"`
	PrimaryAbility        datatypes.JSONSlice[string] `json:"primary_ability"`
	SavingThrows          datatypes.JSONSlice[string] `json:"saving_throws"`
	SpellcastingAbility   *string                     `gorm:"size:20" json:"spellcasting_ability"`
	StartingEquipment     datatypes.JSONSlice[string] `json:"starting_equipment"`
	SpellSlotsProgression datatypes.JSONMap           `json:"spell_slots_progression"`
	SourceBook            string                      `gorm:"size:50;not null" json:"source_book"`
	CreatedAt             time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Subclasses    []Subclass             `gorm:"foreignKey:ClassID" json:"subclasses,omitempty"`
	Features      []ClassFeature         `gorm:"foreignKey:ClassID" json:"features,omitempty"`
	Proficiencies []refModel.Proficiency `gorm:"many2many:class_proficiency" json:"proficiencies,omitempty"`
}

func (Class) TableName() string {
	return "classes"
}

// IsSpellcaster is derived from the presence of a spellcasting ability.
func (c Class) IsSpellcaster() bool {
	return c.SpellcastingAbility != nil && *c.SpellcastingAbility != ""
}

// ClassProficiency is the class_proficiency join row.
type ClassProficiency struct {
	ClassID       uint      `gorm:"primaryKey"`
	ProficiencyID uint      `gorm:"primaryKey;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ClassProficiency) TableName() string {
	return "class_proficiency"
}
