package model

import "time"

// ClassFeature is gained at Level by members of ClassID. When SubclassID is
// set the feature belongs to that subclass only.
type ClassFeature struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Level       int       `gorm:"not null;index" json:"level"`
	IsOptional  bool      `gorm:"not null;default:false" json:"is_optional"`
	SourceBook  string    `gorm:"size:50;not null" json:"source_book"`
	SourcePage  *int      `json:"source_page"`
	ClassID     uint      `gorm:"not null;index" json:"class_id"`
	SubclassID  *uint     `gorm:"index" json:"subclass_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClassFeature) TableName() string {
	return "class_features"
}
