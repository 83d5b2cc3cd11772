package model

import "time"

type Subclass struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	ClassID             uint      `gorm:"not null;index" json:"class_id"`
	SpellcastingAbility *string   `gorm:"size:20" json:"spellcasting_ability"`
	SourceBook          string    `gorm:"size:50;not null" json:"source_book"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Features []ClassFeature `gorm:"foreignKey:SubclassID" json:"features,omitempty"`
}

func (Subclass) TableName() string {
	return "subclasses"
}
