package model

import (
	"time"

	"gorm.io/datatypes"

	"dndbuilder_backend/internals/constants"
	bgModel "dndbuilder_backend/internals/features/backgrounds/model"
	classModel "dndbuilder_backend/internals/features/classes/model"
	raceModel "dndbuilder_backend/internals/features/races/model"
	refModel "dndbuilder_backend/internals/features/reference/model"
)

// Character references its race, class and background without owning them.
// The six score columns mirror the base values of AbilityScores.
type Character struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"size:100;not null;index" json:"name"`
	Description      string `gorm:"type:text;not null" json:"description"`
	UserID           *uint  `gorm:"index" json:"user_id"`
	Level            int    `gorm:"not null;default:1" json:"level"`
	ExperiencePoints int    `gorm:"not null;default:0" json:"experience_points"`
	Alignment        string `gorm:"size:20;not null" json:"alignment"`

	RaceID       uint  `gorm:"not null;index" json:"race_id"`
	SubraceID    *uint `gorm:"index" json:"subrace_id"`
	ClassID      uint  `gorm:"not null;index" json:"class_id"`
	SubclassID   *uint `gorm:"index" json:"subclass_id"`
	BackgroundID uint  `gorm:"not null;index" json:"background_id"`

	Strength     int `gorm:"not null" json:"strength"`
	Dexterity    int `gorm:"not null" json:"dexterity"`
	Constitution int `gorm:"not null" json:"constitution"`
	Intelligence int `gorm:"not null" json:"intelligence"`
	Wisdom       int `gorm:"not null" json:"wisdom"`
	Charisma     int `gorm:"not null" json:"charisma"`

	HitPoints          int `gorm:"not null" json:"hit_points"`
	MaxHitPoints       int `gorm:"not null" json:"max_hit_points"`
	TemporaryHitPoints int `gorm:"not null;default:0" json:"temporary_hit_points"`
	ArmorClass         int `gorm:"not null" json:"armor_class"`
	Initiative         int `gorm:"not null" json:"initiative"`
	Speed              int `gorm:"not null" json:"speed"`

	Features    datatypes.JSONMap                       `json:"features"`
	Equipment   datatypes.JSONType[map[string][]string] `json:"equipment"`
	Spells      datatypes.JSONMap                       `json:"spells"`
	Personality datatypes.JSONType[map[string][]string] `json:"personality"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Race          *raceModel.Race          `json:"race,omitempty"`
	Subrace       *raceModel.Subrace       `json:"subrace,omitempty"`
	Class         *classModel.Class        `json:"class,omitempty"`
	Subclass      *classModel.Subclass     `json:"subclass,omitempty"`
	Background    *bgModel.Background      `json:"background,omitempty"`
	Proficiencies []refModel.Proficiency   `gorm:"many2many:character_proficiency" json:"proficiencies,omitempty"`
	AbilityScores []CharacterAbilityScore  `gorm:"foreignKey:CharacterID" json:"ability_scores,omitempty"`
	Skills        []CharacterSkill         `gorm:"foreignKey:CharacterID" json:"skills,omitempty"`
}

func (Character) TableName() string {
	return "characters"
}

// ScoreFor returns the base score column for an ability name.
func (c *Character) ScoreFor(ability string) int {
	if p := c.scoreField(ability); p != nil {
		return *p
	}
	return 0
}

// SetScore writes the base score column for an ability name.
func (c *Character) SetScore(ability string, v int) {
	if p := c.scoreField(ability); p != nil {
		*p = v
	}
}

func (c *Character) scoreField(ability string) *int {
	switch ability {
	case constants.AbilityStrength:
		return &c.Strength
	case constants.AbilityDexterity:
		return &c.Dexterity
	case constants.AbilityConstitution:
		return &c.Constitution
	case constants.AbilityIntelligence:
		return &c.Intelligence
	case constants.AbilityWisdom:
		return &c.Wisdom
	case constants.AbilityCharisma:
		return &c.Charisma
	}
	return nil
}

// CharacterProficiency is the character_proficiency join row.
type CharacterProficiency struct {
	CharacterID   uint      `gorm:"primaryKey"`
	ProficiencyID uint      `gorm:"primaryKey;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (CharacterProficiency) TableName() string {
	return "character_proficiency"
}
