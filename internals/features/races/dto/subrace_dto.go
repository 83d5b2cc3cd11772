package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/races/model"
	helper "dndbuilder_backend/internals/helpers"
)

type CreateSubraceRequest struct {
	Name                 string         `json:"name" validate:"required,min=1,max=100"`
	Description          string         `json:"description" validate:"required"`
	RaceID               uint           `json:"race_id" validate:"required,gt=0"`
	AbilityScoreIncrease map[string]int `json:"ability_score_increase"`
	Traits               map[string]any `json:"traits"`
	SourceBook           string         `json:"source_book" validate:"max=50"`
}

func (r *CreateSubraceRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AbilityScoreIncrease = constants.NormalizeAbilityMap(r.AbilityScoreIncrease)
	r.SourceBook = strings.TrimSpace(r.SourceBook)
	if r.SourceBook == "" {
		r.SourceBook = defaultSourceBook
	}
}

func (r *CreateSubraceRequest) Check(vb *apperrors.ValidationBuilder) {
	CheckAbilityIncrease(vb, "ability_score_increase", r.AbilityScoreIncrease)
}

func (r *CreateSubraceRequest) ToModel() model.Subrace {
	return model.Subrace{
		Name:                 r.Name,
		Description:          r.Description,
		RaceID:               r.RaceID,
		AbilityScoreIncrease: datatypes.NewJSONType(helper.JSONObject(r.AbilityScoreIncrease)),
		Traits:               datatypes.JSONMap(helper.JSONObject(r.Traits)),
		SourceBook:           r.SourceBook,
	}
}

type UpdateSubraceRequest struct {
	Name                 *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Description          *string         `json:"description" validate:"omitempty,min=1"`
	RaceID               *uint           `json:"race_id" validate:"omitempty,gt=0"`
	AbilityScoreIncrease *map[string]int `json:"ability_score_increase"`
	Traits               *map[string]any `json:"traits"`
	SourceBook           *string         `json:"source_book" validate:"omitempty,min=1,max=50"`
}

func (r *UpdateSubraceRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
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

func (r *UpdateSubraceRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.AbilityScoreIncrease != nil {
		CheckAbilityIncrease(vb, "ability_score_increase", *r.AbilityScoreIncrease)
	}
}

func (r *UpdateSubraceRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.RaceID != nil {
		up["race_id"] = *r.RaceID
	}
	if r.AbilityScoreIncrease != nil {
		up["ability_score_increase"] = datatypes.NewJSONType(helper.JSONObject(*r.AbilityScoreIncrease))
	}
	if r.Traits != nil {
		up["traits"] = datatypes.JSONMap(helper.JSONObject(*r.Traits))
	}
	if r.SourceBook != nil {
		up["source_book"] = *r.SourceBook
	}
	return up
}

/* =======================================================
   RESPONSE
   ======================================================= */

type SubraceSummary struct {
	ID                   uint           `json:"id"`
	Name                 string         `json:"name"`
	AbilityScoreIncrease map[string]int `json:"ability_score_increase"`
}

func ToSubraceSummary(m model.Subrace) SubraceSummary {
	return SubraceSummary{
		ID:                   m.ID,
		Name:                 m.Name,
		AbilityScoreIncrease: helper.JSONObject(m.AbilityScoreIncrease.Data()),
	}
}

type SubraceResponse struct {
	ID                   uint           `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	RaceID               uint           `json:"race_id"`
	Race                 *RaceSummary   `json:"race,omitempty"`
	AbilityScoreIncrease map[string]int `json:"ability_score_increase"`
	Traits               map[string]any `json:"traits"`
	SourceBook           string         `json:"source_book"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// ToSubraceResponse renders a subrace; parent may be nil when the race was
// not loaded.
func ToSubraceResponse(m model.Subrace, parent *model.Race) SubraceResponse {
	resp := SubraceResponse{
		ID:                   m.ID,
		Name:                 m.Name,
		Description:          m.Description,
		RaceID:               m.RaceID,
		AbilityScoreIncrease: helper.JSONObject(m.AbilityScoreIncrease.Data()),
		Traits:               helper.JSONObject(map[string]any(m.Traits)),
		SourceBook:           m.SourceBook,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if parent != nil {
		resp.Race = &RaceSummary{ID: parent.ID, Name: parent.Name}
	}
	return resp
}
