package model

import (
	"time"

	"gorm.io/datatypes"

	refModel "dndbuilder_backend/internals/features/reference/model"
)

// Characteristics are the background's suggested personality tables.
type Characteristics struct {
	PersonalityTraits []string `json:"personality_traits"`
	Ideals            []string `json:"ideals"`
	Bonds             []string `json:"bonds"`
	Flaws             []string `json:"flaws"`
}

type Background struct {
	ID              uint                                `gorm:"primaryKey" json:"id"`
	Name            string                              `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description     string                              `gorm:"type:text;not null" json:"description"`
	Equipment       datatypes.JSONSlice[string]         `json:"equipment"`
	Characteristics datatypes.JSONType[Characteristics] `json:"characteristics"`
	SourceBook      string                              `gorm:"size:50;not null" json:"source_book"`
	CreatedAt       time.Time                           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Feature       *BackgroundFeature     `gorm:"foreignKey:BackgroundID" json:"feature,omitempty"`
	Proficiencies []refModel.Proficiency `gorm:"many2many:background_proficiency" json:"proficiencies,omitempty"`
}

func (Background) TableName() string {
	return "backgrounds"
}

// BackgroundFeature is the single signature feature a background owns.
type BackgroundFeature struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BackgroundID uint      `gorm:"not null;uniqueIndex" json:"background_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BackgroundFeature) TableName() string {
	return "background_features"
}

// BackgroundProficiency is the background_proficiency join row.
type BackgroundProficiency struct {
	BackgroundID  uint      `gorm:"primaryKey"`
	ProficiencyID uint      `gorm:"primaryKey;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (BackgroundProficiency) TableName() string {
	return "background_proficiency"
}
