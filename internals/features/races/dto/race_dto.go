package dto

import (
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/races/model"
	refDTO "dndbuilder_backend/internals/features/reference/dto"
	helper "dndbuilder_backend/internals/helpers"
)

const defaultSourceBook = "PHB"

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateRaceRequest struct {
	Name                 string         `json:"name" validate:"required,min=1,max=100"`
	Description          string         `json:"description" validate:"required"`
	Size                 string         `json:"size" validate:"required,size"`
	Speed                *int           `json:"speed" validate:"required,gte=0"`
	AbilityScoreIncrease map[string]int `json:"ability_score_increase"`
	Age                  map[string]any `json:"age"`
	Languages            []string       `json:"languages" validate:"omitempty,dive,required,max=50"`
	Traits               map[string]any `json:"traits"`
	SourceBook           string         `json:"source_book" validate:"max=50"`
	ProficiencyIDs       []uint         `json:"proficiency_ids"`
}

func (r *CreateRaceRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Size = constants.NormalizeSize(r.Size)
	r.AbilityScoreIncrease = constants.NormalizeAbilityMap(r.AbilityScoreIncrease)
	r.SourceBook = strings.TrimSpace(r.SourceBook)
	if r.SourceBook == "" {
		r.SourceBook = defaultSourceBook
	}
}

func (r *CreateRaceRequest) Check(vb *apperrors.ValidationBuilder) {
	CheckAbilityIncrease(vb, "ability_score_increase", r.AbilityScoreIncrease)
}

func (r *CreateRaceRequest) ToModel() model.Race {
	speed := 0
	if r.Speed != nil {
		speed = *r.Speed
	}
	return model.Race{
		Name:                 r.Name,
		Description:          r.Description,
		Size:                 r.Size,
		Speed:                speed,
		AbilityScoreIncrease: datatypes.NewJSONType(helper.JSONObject(r.AbilityScoreIncrease)),
		Age:                  datatypes.JSONMap(helper.JSONObject(r.Age)),
		Languages:            datatypes.NewJSONSlice(helper.JSONArray(r.Languages)),
		Traits:               datatypes.JSONMap(helper.JSONObject(r.Traits)),
		SourceBook:           r.SourceBook,
	}
}

type UpdateRaceRequest struct {
	Name                 *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Description          *string         `json:"description" validate:"omitempty,min=1"`
	Size                 *string         `json:"size" validate:"omitempty,size"`
	Speed                *int            `json:"speed" validate:"omitempty,gte=0"`
	AbilityScoreIncrease *map[string]int `json:"ability_score_increase"`
	Age                  *map[string]any `json:"age"`
	Languages            *[]string       `json:"languages" validate:"omitempty,dive,required,max=50"`
	Traits               *map[string]any `json:"traits"`
	SourceBook           *string         `json:"source_book" validate:"omitempty,min=1,max=50"`
	ProficiencyIDs       *[]uint         `json:"proficiency_ids"`
}

func (r *UpdateRaceRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Size != nil {
		v := constants.NormalizeSize(*r.Size)
		r.Size = &v
	}
	if r.AbilityScoreIncrease != nil {
		v := constants.NormalizeAbilityMap(*r.AbilityScoreIncrease)
		r.AbilityScoreIncrease = &v
	}
	if r.SourceBook != nil {
		v := strings.TrimSpace(*r.SourceBook)
		r.SourceBook = &v
	}
}

func (r *UpdateRaceRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.AbilityScoreIncrease != nil {
		CheckAbilityIncrease(vb, "ability_score_increase", *r.AbilityScoreIncrease)
	}
}

func (r *UpdateRaceRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.Size != nil {
		up["size"] = *r.Size
	}
	if r.Speed != nil {
		up["speed"] = *r.Speed
	}
	if r.AbilityScoreIncrease != nil {
		up["ability_score_increase"] = datatypes.NewJSONType(helper.JSONObject(*r.AbilityScoreIncrease))
	}
	if r.Age != nil {
		up["age"] = datatypes.JSONMap(helper.JSONObject(*r.Age))
	}
	if r.Languages != nil {
		up["languages"] = datatypes.NewJSONSlice(helper.JSONArray(*r.Languages))
	}
	if r.Traits != nil {
		up["traits"] = datatypes.JSONMap(helper.JSONObject(*r.Traits))
	}
	if r.SourceBook != nil {
		up["source_book"] = *r.SourceBook
	}
	return up
}

// CheckAbilityIncrease accepts only ability keys with bonuses in [-5, 5].
func CheckAbilityIncrease(vb *apperrors.ValidationBuilder, field string, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !constants.Contains(constants.Abilities, k) {
			vb.Fieldf(field, "unknown ability %q; must be one of: %s", k, strings.Join(constants.Abilities, ", "))
			continue
		}
		if v := m[k]; v < -5 || v > 5 {
			vb.Fieldf(field+"."+k, "must be between -5 and 5")
		}
	}
}

/* =======================================================
   RESPONSE
   ======================================================= */

type RaceSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type RaceResponse struct {
	ID                   uint                         `json:"id"`
	Name                 string                       `json:"name"`
	Description          string                       `json:"description"`
	Size                 string                       `json:"size"`
	Speed                int                          `json:"speed"`
	AbilityScoreIncrease map[string]int               `json:"ability_score_increase"`
	Age                  map[string]any               `json:"age"`
	Languages            []string                     `json:"languages"`
	Traits               map[string]any               `json:"traits"`
	SourceBook           string                       `json:"source_book"`
	Subraces             []SubraceSummary             `json:"subraces"`
	Proficiencies        []refDTO.ProficiencyResponse `json:"proficiencies"`
	CreatedAt            time.Time                    `json:"created_at"`
	UpdatedAt            time.Time                    `json:"updated_at"`
}

func ToRaceResponse(m model.Race) RaceResponse {
	subs := make([]SubraceSummary, 0, len(m.Subraces))
	for _, s := range m.Subraces {
		subs = append(subs, ToSubraceSummary(s))
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })

	return RaceResponse{
		ID:                   m.ID,
		Name:                 m.Name,
		Description:          m.Description,
		Size:                 m.Size,
		Speed:                m.Speed,
		AbilityScoreIncrease: helper.JSONObject(m.AbilityScoreIncrease.Data()),
		Age:                  helper.JSONObject(map[string]any(m.Age)),
		Languages:            helper.JSONArray([]string(m.Languages)),
		Traits:               helper.JSONObject(map[string]any(m.Traits)),
		SourceBook:           m.SourceBook,
		Subraces:             subs,
		Proficiencies:        refDTO.ToProficiencyResponses(m.Proficiencies),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func ToRaceResponses(rows []model.Race) []RaceResponse {
	out := make([]RaceResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToRaceResponse(m))
	}
	return out
}
