package model

import (
	"time"

	"gorm.io/datatypes"
)

// Subrace belongs to exactly one Race. Its parent is resolved by RaceID.
type Subrace struct {
	ID                   uint                               `gorm:"primaryKey" json:"id"`
	Name                 string                             `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description          string                             `gorm:"type:text;not null" json:"description"`
	RaceID               uint                               `gorm:"not null;index" json:"race_id"`
	AbilityScoreIncrease datatypes.JSONType[map[string]int] `json:"ability_score_increase"`
	Traits               datatypes.JSONMap                  `json:"traits"`
	SourceBook           string                             `gorm:"size:50;not null" json:"source_book"`
	CreatedAt            time.Time                          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time                          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Subrace) TableName() string {
	return "subraces"
}
