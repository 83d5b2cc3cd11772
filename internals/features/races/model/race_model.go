package model

import (
	"time"

	"gorm.io/datatypes"

	refModel "dndbuilder_backend/internals/features/reference/model"
)

type Race struct {
	ID                   uint                               `gorm:"primaryKey" json:"id"`
	Name                 string                             `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description          string                             `gorm:"type:text;not null" json:"description"`
	Size                 string                             `gorm:"size:20;not null" json:"size"`
	Speed                int                                `gorm:"not null" json:"speed"`
	AbilityScoreIncrease datatypes.JSONType[map[string]int] `json:"ability_score_increase"`
	Age                  datatypes.JSONMap                  `json:"age"`
	Languages            datatypes.JSONSlice[string]        `json:"languages"`
	Traits               datatypes.JSONMap                  `json:"traits"`
	SourceBook           string                             `gorm:"size:50;not null" json:"source_book"`
	CreatedAt            time.Time                          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time                          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Subraces      []Subrace              `gorm:"foreignKey:RaceID" json:"subraces,omitempty"`
	Proficiencies []refModel.Proficiency `gorm:"many2many:race_proficiency" json:"proficiencies,omitempty"`
}

func (Race) TableName() string {
	return "races"
}

// RaceProficiency is the race_proficiency join row.
type RaceProficiency struct {
	RaceID        uint      `gorm:"primaryKey"`
	ProficiencyID uint      `gorm:"primaryKey;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (RaceProficiency) TableName() string {
	return "race_proficiency"
}
