package dto

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/classes/model"
	refDTO "dndbuilder_backend/internals/features/reference/dto"
	helper "dndbuilder_backend/internals/helpers"
)

const defaultSourceBook = "PHB"

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateClassRequest struct {
	Name                  string         `json:"name" validate:"required,min=1,max=100"`
	Description           string         `json:"description" validate:"required"`
	HitDie                string         `json:"hit_die" validate:"required,hitdie"`
	PrimaryAbility        []string       `json:"primary_ability" validate:"omitempty,dive,ability"`
	SavingThrows          []string       `json:"saving_throws" validate:"omitempty,max=6,dive,ability"`
	SpellcastingAbility   *string        `json:"spellcasting_ability" validate:"omitempty,ability"`
	StartingEquipment     []string       `json:"starting_equipment" validate:"omitempty,dive,required"`
	SpellSlotsProgression map[string]any `json:"spell_slots_progression"`
	SourceBook            string         `json:"source_book" validate:"max=50"`
	ProficiencyIDs        []uint         `json:"proficiency_ids"`
}

func (r *CreateClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.HitDie = strings.ToLower(strings.TrimSpace(r.HitDie))
	r.PrimaryAbility = constants.NormalizeAbilityList(r.PrimaryAbility)
	r.SavingThrows = constants.NormalizeAbilityList(r.SavingThrows)
	r.SpellcastingAbility = normalizeAbilityPtr(r.SpellcastingAbility)
	r.SourceBook = strings.TrimSpace(r.SourceBook)
	if r.SourceBook == "" {
		r.SourceBook = defaultSourceBook
	}
}

func (r *CreateClassRequest) ToModel() model.Class {
	return model.Class{
		Name:                  r.Name,
		Description:           r.Description,
		HitDie:                r.HitDie,
		PrimaryAbility:        datatypes.NewJSONSlice(helper.JSONArray(r.PrimaryAbility)),
		SavingThrows:          datatypes.NewJSONSlice(helper.JSONArray(r.SavingThrows)),
		SpellcastingAbility:   r.SpellcastingAbility,
		StartingEquipment:     datatypes.NewJSONSlice(helper.JSONArray(r.StartingEquipment)),
		SpellSlotsProgression: datatypes.JSONMap(helper.JSONObject(r.SpellSlotsProgression)),
		SourceBook:            r.SourceBook,
	}
}

// UpdateClassRequest: spellcasting_ability may be cleared with null.
type UpdateClassRequest struct {
	Name                  *string                  `json:"name" validate:"omitempty,min=1,max=100"`
	Description           *string                  `json:"description" validate:"omitempty,min=1"`
	HitDie                *string                  `json:"hit_die" validate:"omitempty,hitdie"`
	PrimaryAbility        *[]string                `json:"primary_ability" validate:"omitempty,dive,ability"`
	SavingThrows          *[]string                `json:"saving_throws" validate:"omitempty,max=6,dive,ability"`
	SpellcastingAbility   helper.Optional[*string] `json:"spellcasting_ability"`
	StartingEquipment     *[]string                `json:"starting_equipment" validate:"omitempty,dive,required"`
	SpellSlotsProgression *map[string]any          `json:"spell_slots_progression"`
	SourceBook            *string                  `json:"source_book" validate:"omitempty,min=1,max=50"`
	ProficiencyIDs        *[]uint                  `json:"proficiency_ids"`
}

func (r *UpdateClassRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.HitDie != nil {
		v := strings.ToLower(strings.TrimSpace(*r.HitDie))
		r.HitDie = &v
	}
	if r.PrimaryAbility != nil {
		v := constants.NormalizeAbilityList(*r.PrimaryAbility)
		r.PrimaryAbility = &v
	}
	if r.SavingThrows != nil {
		v := constants.NormalizeAbilityList(*r.SavingThrows)
		r.SavingThrows = &v
	}
	if r.SpellcastingAbility.Present {
		r.SpellcastingAbility.Value = normalizeAbilityPtr(r.SpellcastingAbility.Value)
	}
}

func (r *UpdateClassRequest) Check(vb *apperrors.ValidationBuilder) {
	checkOptionalAbility(vb, "spellcasting_ability", r.SpellcastingAbility)
}

func (r *UpdateClassRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.HitDie != nil {
		up["hit_die"] = *r.HitDie
	}
	if r.PrimaryAbility != nil {
		up["primary_ability"] = datatypes.NewJSONSlice(helper.JSONArray(*r.PrimaryAbility))
	}
	if r.SavingThrows != nil {
		up["saving_throws"] = datatypes.NewJSONSlice(helper.JSONArray(*r.SavingThrows))
	}
	if r.SpellcastingAbility.Present {
		up["spellcasting_ability"] = r.SpellcastingAbility.Value
	}
	if r.StartingEquipment != nil {
		up["starting_equipment"] = datatypes.NewJSONSlice(helper.JSONArray(*r.StartingEquipment))
	}
	if r.SpellSlotsProgression != nil {
		up["spell_slots_progression"] = datatypes.JSONMap(helper.JSONObject(*r.SpellSlotsProgression))
	}
	if r.SourceBook != nil {
		up["source_book"] = *r.SourceBook
	}
	return up
}

/* =======================================================
   RESPONSE
   ======================================================= */

type ClassSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	HitDie string `json:"hit_die"`
}

type ClassResponse struct {
	ID                    uint                              `json:"id"`
	Name                  string                            `json:"name"`
	Description           string                            `json:"description"`
	HitDie                string                            `json:"hit_die"`
	PrimaryAbility        []string                          `json:"primary_ability"`
	SavingThrows          []string                          `json:"saving_throws"`
	SpellcastingAbility   *string                           `json:"spellcasting_ability"`
	IsSpellcaster         bool                              `json:"is_spellcaster"`
	StartingEquipment     []string                          `json:"starting_equipment"`
	SpellSlotsProgression map[string]any                    `json:"spell_slots_progression"`
	SourceBook            string                            `json:"source_book"`
	Subclasses            []SubclassSummary                 `json:"subclasses"`
	FeaturesByLevel       map[string][]ClassFeatureResponse `json:"features_by_level"`
	Proficiencies         []refDTO.ProficiencyResponse      `json:"proficiencies"`
	CreatedAt             time.Time                         `json:"created_at"`
	UpdatedAt             time.Time                         `json:"updated_at"`
}

// ToClassResponse renders a class. Features tied to a subclass are left to
// that subclass.
func ToClassResponse(m model.Class) ClassResponse {
	subs := make([]SubclassSummary, 0, len(m.Subclasses))
	for _, s := range m.Subclasses {
		subs = append(subs, SubclassSummary{ID: s.ID, Name: s.Name})
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })

	own := make([]model.ClassFeature, 0, len(m.Features))
	for _, f := range m.Features {
		if f.SubclassID == nil {
			own = append(own, f)
		}
	}

	return ClassResponse{
		ID:                    m.ID,
		Name:                  m.Name,
		Description:           m.Description,
		HitDie:                m.HitDie,
		PrimaryAbility:        helper.JSONArray([]string(m.PrimaryAbility)),
		SavingThrows:          helper.JSONArray([]string(m.SavingThrows)),
		SpellcastingAbility:   m.SpellcastingAbility,
		IsSpellcaster:         m.IsSpellcaster(),
		StartingEquipment:     helper.JSONArray([]string(m.StartingEquipment)),
		SpellSlotsProgression: helper.JSONObject(map[string]any(m.SpellSlotsProgression)),
		SourceBook:            m.SourceBook,
		Subclasses:            subs,
		FeaturesByLevel:       GroupByLevel(own),
		Proficiencies:         refDTO.ToProficiencyResponses(m.Proficiencies),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func ToClassResponses(rows []model.Class) []ClassResponse {
	out := make([]ClassResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToClassResponse(m))
	}
	return out
}

// GroupByLevel buckets features under their level ("1", "2", ...), each
// bucket ordered by id.
func GroupByLevel(features []model.ClassFeature) map[string][]ClassFeatureResponse {
	sorted := append([]model.ClassFeature(nil), features...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level < sorted[j].Level
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make(map[string][]ClassFeatureResponse)
	for _, f := range sorted {
		key := strconv.Itoa(f.Level)
		out[key] = append(out[key], ToClassFeatureResponse(f))
	}
	return out
}
