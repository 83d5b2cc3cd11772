package model

import "time"

// Proficiency is shared reference data. Races, classes, backgrounds and
// characters point at it through join tables and never own it.
type Proficiency struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description  *string   `gorm:"size:500" json:"description"`
	Type         string    `gorm:"size:20;not null;index" json:"type"`
	AbilityScore *string   `gorm:"size:50" json:"ability_score"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Proficiency) TableName() string {
	return "proficiencies"
}
