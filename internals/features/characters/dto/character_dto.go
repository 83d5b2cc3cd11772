package dto

import (
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/characters/model"
	refDTO "dndbuilder_backend/internals/features/reference/dto"
	helper "dndbuilder_backend/internals/helpers"
	"dndbuilder_backend/internals/rules"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateCharacterRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=100"`
	Description      string `json:"description" validate:"max=5000"`
	Level            *int   `json:"level" validate:"omitempty,min=1,max=20"`
	ExperiencePoints *int   `json:"experience_points" validate:"omitempty,min=0"`
	Alignment        string `json:"alignment" validate:"required,alignment"`

	RaceID       uint  `json:"race_id" validate:"required,gt=0"`
	SubraceID    *uint `json:"subrace_id" validate:"omitempty,gt=0"`
	ClassID      uint  `json:"class_id" validate:"required,gt=0"`
	SubclassID   *uint `json:"subclass_id" validate:"omitempty,gt=0"`
	BackgroundID uint  `json:"background_id" validate:"required,gt=0"`

	Strength     int `json:"strength" validate:"required,min=1,max=20"`
	Dexterity    int `json:"dexterity" validate:"required,min=1,max=20"`
	Constitution int `json:"constitution" validate:"required,min=1,max=20"`
	Intelligence int `json:"intelligence" validate:"required,min=1,max=20"`
	Wisdom       int `json:"wisdom" validate:"required,min=1,max=20"`
	Charisma     int `json:"charisma" validate:"required,min=1,max=20"`

	HitPoints          int  `json:"hit_points" validate:"required,min=1"`
	MaxHitPoints       int  `json:"max_hit_points" validate:"required,min=1"`
	TemporaryHitPoints int  `json:"temporary_hit_points" validate:"min=0"`
	ArmorClass         int  `json:"armor_class" validate:"required,min=1"`
	Initiative         int  `json:"initiative"`
	Speed              *int `json:"speed" validate:"required,min=0"`

	Features       map[string]any      `json:"features"`
	Equipment      map[string][]string `json:"equipment"`
	Spells         map[string]any      `json:"spells"`
	Personality    map[string][]string `json:"personality"`
	ProficiencyIDs []uint              `json:"proficiency_ids"`
}

func (r *CreateCharacterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Alignment = constants.NormalizeAlignment(r.Alignment)
}

// Check enforces that a new character starts at full health.
func (r *CreateCharacterRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.HitPoints != r.MaxHitPoints {
		vb.Field("hit_points", "must equal max_hit_points on character creation")
	}
}

// Scores returns the submitted base scores keyed by ability.
func (r *CreateCharacterRequest) Scores() map[string]int {
	return map[string]int{
		constants.AbilityStrength:     r.Strength,
		constants.AbilityDexterity:    r.Dexterity,
		constants.AbilityConstitution: r.Constitution,
		constants.AbilityIntelligence: r.Intelligence,
		constants.AbilityWisdom:       r.Wisdom,
		constants.AbilityCharisma:     r.Charisma,
	}
}

func (r *CreateCharacterRequest) ToModel(userID *uint) model.Character {
	level, xp, speed := 1, 0, 0
	if r.Level != nil {
		level = *r.Level
	}
	if r.ExperiencePoints != nil {
		xp = *r.ExperiencePoints
	}
	if r.Speed != nil {
		speed = *r.Speed
	}
	m := model.Character{
		Name:               r.Name,
		Description:        r.Description,
		UserID:             userID,
		Level:              level,
		ExperiencePoints:   xp,
		Alignment:          r.Alignment,
		RaceID:             r.RaceID,
		SubraceID:          r.SubraceID,
		ClassID:            r.ClassID,
		SubclassID:         r.SubclassID,
		BackgroundID:       r.BackgroundID,
		HitPoints:          r.HitPoints,
		MaxHitPoints:       r.MaxHitPoints,
		TemporaryHitPoints: r.TemporaryHitPoints,
		ArmorClass:         r.ArmorClass,
		Initiative:         r.Initiative,
		Speed:              speed,
		Features:           datatypes.JSONMap(helper.JSONObject(r.Features)),
		Equipment:          datatypes.NewJSONType(helper.JSONObject(r.Equipment)),
		Personality:        datatypes.NewJSONType(helper.JSONObject(r.Personality)),
	}
	if r.Spells != nil {
		m.Spells = datatypes.JSONMap(r.Spells)
	}
	for ability, v := range r.Scores() {
		m.SetScore(ability, v)
	}
	return m
}

// UpdateCharacterRequest is a PATCH body. subrace_id, subclass_id and spells
// may be cleared with null.
type UpdateCharacterRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description      *string `json:"description" validate:"omitempty,max=5000"`
	Level            *int    `json:"level" validate:"omitempty,min=1,max=20"`
	ExperiencePoints *int    `json:"experience_points" validate:"omitempty,min=0"`
	Alignment        *string `json:"alignment" validate:"omitempty,alignment"`

	RaceID       *uint                  `json:"race_id" validate:"omitempty,gt=0"`
	SubraceID    helper.Optional[*uint] `json:"subrace_id"`
	ClassID      *uint                  `json:"class_id" validate:"omitempty,gt=0"`
	SubclassID   helper.Optional[*uint] `json:"subclass_id"`
	BackgroundID *uint                  `json:"background_id" validate:"omitempty,gt=0"`

	Strength     *int `json:"strength" validate:"omitempty,min=1,max=20"`
	Dexterity    *int `json:"dexterity" validate:"omitempty,min=1,max=20"`
	Constitution *int `json:"constitution" validate:"omitempty,min=1,max=20"`
	Intelligence *int `json:"intelligence" validate:"omitempty,min=1,max=20"`
	Wisdom       *int `json:"wisdom" validate:"omitempty,min=1,max=20"`
	Charisma     *int `json:"charisma" validate:"omitempty,min=1,max=20"`

	HitPoints          *int `json:"hit_points" validate:"omitempty,min=0"`
	MaxHitPoints       *int `json:"max_hit_points" validate:"omitempty,min=1"`
	TemporaryHitPoints *int `json:"temporary_hit_points" validate:"omitempty,min=0"`
	ArmorClass         *int `json:"armor_class" validate:"omitempty,min=1"`
	Initiative         *int `json:"initiative"`
	Speed              *int `json:"speed" validate:"omitempty,min=0"`

	Features       *map[string]any                 `json:"features"`
	Equipment      *map[string][]string            `json:"equipment"`
	Spells         helper.Optional[map[string]any] `json:"spells"`
	Personality    *map[string][]string            `json:"personality"`
	ProficiencyIDs *[]uint                         `json:"proficiency_ids"`
}

func (r *UpdateCharacterRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Alignment != nil {
		v := constants.NormalizeAlignment(*r.Alignment)
		r.Alignment = &v
	}
}

func (r *UpdateCharacterRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.SubraceID.Present && r.SubraceID.Value != nil && *r.SubraceID.Value == 0 {
		vb.Field("subrace_id", "must be a positive integer")
	}
	if r.SubclassID.Present && r.SubclassID.Value != nil && *r.SubclassID.Value == 0 {
		vb.Field("subclass_id", "must be a positive integer")
	}
}

// Scores returns the supplied base scores keyed by ability.
func (r *UpdateCharacterRequest) Scores() map[string]int {
	out := make(map[string]int)
	for ability, p := range map[string]*int{
		constants.AbilityStrength:     r.Strength,
		constants.AbilityDexterity:    r.Dexterity,
		constants.AbilityConstitution: r.Constitution,
		constants.AbilityIntelligence: r.Intelligence,
		constants.AbilityWisdom:       r.Wisdom,
		constants.AbilityCharisma:     r.Charisma,
	} {
		if p != nil {
			out[ability] = *p
		}
	}
	return out
}

// Apply copies the supplied fields onto m.
func (r *UpdateCharacterRequest) Apply(m *model.Character) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.Level != nil {
		m.Level = *r.Level
	}
	if r.ExperiencePoints != nil {
		m.ExperiencePoints = *r.ExperiencePoints
	}
	if r.Alignment != nil {
		m.Alignment = *r.Alignment
	}
	if r.RaceID != nil {
		m.RaceID = *r.RaceID
	}
	if r.SubraceID.Present {
		m.SubraceID = r.SubraceID.Value
	}
	if r.ClassID != nil {
		m.ClassID = *r.ClassID
	}
	if r.SubclassID.Present {
		m.SubclassID = r.SubclassID.Value
	}
	if r.BackgroundID != nil {
		m.BackgroundID = *r.BackgroundID
	}
	for ability, v := range r.Scores() {
		m.SetScore(ability, v)
	}
	if r.HitPoints != nil {
		m.HitPoints = *r.HitPoints
	}
	if r.MaxHitPoints != nil {
		m.MaxHitPoints = *r.MaxHitPoints
	}
	if r.TemporaryHitPoints != nil {
		m.TemporaryHitPoints = *r.TemporaryHitPoints
	}
	if r.ArmorClass != nil {
		m.ArmorClass = *r.ArmorClass
	}
	if r.Initiative != nil {
		m.Initiative = *r.Initiative
	}
	if r.Speed != nil {
		m.Speed = *r.Speed
	}
	if r.Features != nil {
		m.Features = datatypes.JSONMap(helper.JSONObject(*r.Features))
	}
	if r.Equipment != nil {
		m.Equipment = datatypes.NewJSONType(helper.JSONObject(*r.Equipment))
	}
	if r.Spells.Present {
		m.Spells = nil
		if r.Spells.Value != nil {
			m.Spells = datatypes.JSONMap(r.Spells.Value)
		}
	}
	if r.Personality != nil {
		m.Personality = datatypes.NewJSONType(helper.JSONObject(*r.Personality))
	}
}

/* =======================================================
   RESPONSE
   ======================================================= */

type RefSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AbilityScoreBreakdown struct {
	Ability      string `json:"ability"`
	Abbreviation string `json:"abbreviation"`
	BaseValue    int    `json:"base_value"`
	RacialBonus  int    `json:"racial_bonus"`
	AsiBonus     int    `json:"asi_bonus"`
	MiscBonus    int    `json:"misc_bonus"`
	Total        int    `json:"total"`
	Modifier     int    `json:"modifier"`
}

type SkillResponse struct {
	ProficiencyID    uint    `json:"proficiency_id"`
	Name             string  `json:"name"`
	Ability          *string `json:"ability"`
	ProficiencyLevel string  `json:"proficiency_level"`
	Modifier         int     `json:"modifier"`
}

type CharacterResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	UserID           *uint  `json:"user_id"`
	Level            int    `json:"level"`
	ExperiencePoints int    `json:"experience_points"`
	Alignment        string `json:"alignment"`
	ProficiencyBonus int    `json:"proficiency_bonus"`

	RaceID       uint        `json:"race_id"`
	Race         *RefSummary `json:"race"`
	SubraceID    *uint       `json:"subrace_id"`
	Subrace      *RefSummary `json:"subrace"`
	ClassID      uint        `json:"class_id"`
	Class        *RefSummary `json:"class"`
	SubclassID   *uint       `json:"subclass_id"`
	Subclass     *RefSummary `json:"subclass"`
	BackgroundID uint        `json:"background_id"`
	Background   *RefSummary `json:"background"`

	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`

	HitPoints          int `json:"hit_points"`
	MaxHitPoints       int `json:"max_hit_points"`
	TemporaryHitPoints int `json:"temporary_hit_points"`
	ArmorClass         int `json:"armor_class"`
	Initiative         int `json:"initiative"`
	Speed              int `json:"speed"`

	Features      map[string]any               `json:"features"`
	Equipment     map[string][]string          `json:"equipment"`
	Spells        map[string]any               `json:"spells"`
	Personality   map[string][]string          `json:"personality"`
	Proficiencies []refDTO.ProficiencyResponse `json:"proficiencies"`
	AbilityScores []AbilityScoreBreakdown      `json:"ability_scores"`
	Skills        []SkillResponse              `json:"skills"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAbilityScoreBreakdown renders one ability row; the ability must be preloaded.
func ToAbilityScoreBreakdown(s model.CharacterAbilityScore) AbilityScoreBreakdown {
	out := AbilityScoreBreakdown{
		BaseValue:   s.BaseValue,
		RacialBonus: s.RacialBonus,
		AsiBonus:    s.AsiBonus,
		MiscBonus:   s.MiscBonus,
		Total:       s.Total(),
		Modifier:    s.Modifier(),
	}
	if s.AbilityScore != nil {
		out.Ability = s.AbilityScore.Name
		out.Abbreviation = s.AbilityScore.Abbreviation
	}
	return out
}

// AbilityModifiers maps each ability to its modifier, from the breakdown
// rows when present and from the base columns otherwise.
func AbilityModifiers(m model.Character) map[string]int {
	out := make(map[string]int, len(constants.Abilities))
	for _, a := range constants.Abilities {
		out[a] = rules.AbilityModifier(m.ScoreFor(a))
	}
	for _, s := range m.AbilityScores {
		if s.AbilityScore != nil {
			out[s.AbilityScore.Name] = s.Modifier()
		}
	}
	return out
}

// ToSkillResponse computes a skill modifier for a character with the given
// proficiency bonus.
func ToSkillResponse(s model.CharacterSkill, mods map[string]int, profBonus int) SkillResponse {
	out := SkillResponse{
		ProficiencyID:    s.ProficiencyID,
		ProficiencyLevel: s.ProficiencyLevel,
	}
	abilityMod := 0
	if s.Proficiency != nil {
		out.Name = s.Proficiency.Name
		out.Ability = s.Proficiency.AbilityScore
		if s.Proficiency.AbilityScore != nil {
			abilityMod = mods[*s.Proficiency.AbilityScore]
		}
	}
	out.Modifier = rules.SkillModifier(abilityMod, profBonus, constants.ProficiencyLevel(s.ProficiencyLevel))
	return out
}

func summary(id uint, name string) *RefSummary {
	return &RefSummary{ID: id, Name: name}
}

// ToCharacterResponse renders a character with whatever relations are loaded.
func ToCharacterResponse(m model.Character) CharacterResponse {
	// rows written outside the API may carry an out-of-range level
	profBonus, err := rules.ProficiencyBonus(m.Level)
	if err != nil {
		log.Printf("[WARN] character %d: %v", m.ID, err)
		profBonus = 0
	}

	resp := CharacterResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		UserID:             m.UserID,
		Level:              m.Level,
		ExperiencePoints:   m.ExperiencePoints,
		Alignment:          m.Alignment,
		ProficiencyBonus:   profBonus,
		RaceID:             m.RaceID,
		SubraceID:          m.SubraceID,
		ClassID:            m.ClassID,
		SubclassID:         m.SubclassID,
		BackgroundID:       m.BackgroundID,
		Strength:           m.Strength,
		Dexterity:          m.Dexterity,
		Constitution:       m.Constitution,
		Intelligence:       m.Intelligence,
		Wisdom:             m.Wisdom,
		Charisma:           m.Charisma,
		HitPoints:          m.HitPoints,
		MaxHitPoints:       m.MaxHitPoints,
		TemporaryHitPoints: m.TemporaryHitPoints,
		ArmorClass:         m.ArmorClass,
		Initiative:         m.Initiative,
		Speed:              m.Speed,
		Features:           helper.JSONObject(map[string]any(m.Features)),
		Equipment:          helper.JSONObject(m.Equipment.Data()),
		Personality:        helper.JSONObject(m.Personality.Data()),
		Proficiencies:      refDTO.ToProficiencyResponses(m.Proficiencies),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.Spells != nil {
		resp.Spells = map[string]any(m.Spells)
	}
	if m.Race != nil {
		resp.Race = summary(m.Race.ID, m.Race.Name)
	}
	if m.Subrace != nil {
		resp.Subrace = summary(m.Subrace.ID, m.Subrace.Name)
	}
	if m.Class != nil {
		resp.Class = summary(m.Class.ID, m.Class.Name)
	}
	if m.Subclass != nil {
		resp.Subclass = summary(m.Subclass.ID, m.Subclass.Name)
	}
	if m.Background != nil {
		resp.Background = summary(m.Background.ID, m.Background.Name)
	}

	resp.AbilityScores = make([]AbilityScoreBreakdown, 0, len(m.AbilityScores))
	for _, s := range m.AbilityScores {
		resp.AbilityScores = append(resp.AbilityScores, ToAbilityScoreBreakdown(s))
	}

	mods := AbilityModifiers(m)
	resp.Skills = make([]SkillResponse, 0, len(m.Skills))
	for _, s := range m.Skills {
		resp.Skills = append(resp.Skills, ToSkillResponse(s, mods, profBonus))
	}
	return resp
}
