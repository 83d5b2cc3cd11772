package dto

import (
	"strings"
	"time"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateProficiencyRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	Type         string  `json:"type" validate:"required,proftype"`
	AbilityScore *string `json:"ability_score" validate:"omitempty,ability"`
}

func (r *CreateProficiencyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.AbilityScore = normalizeAbilityPtr(r.AbilityScore)
}

func (r *CreateProficiencyRequest) ToModel() model.Proficiency {
	return model.Proficiency{
		Name:         r.Name,
		Description:  r.Description,
		Type:         r.Type,
		AbilityScore: r.AbilityScore,
	}
}

// UpdateProficiencyRequest is a PATCH body: absent fields stay untouched,
// description and ability_score may be cleared with null.
type UpdateProficiencyRequest struct {
	Name         *string                  `json:"name" validate:"omitempty,min=1,max=100"`
	Description  helper.Optional[*string] `json:"description"`
	Type         *string                  `json:"type" validate:"omitempty,proftype"`
	AbilityScore helper.Optional[*string] `json:"ability_score"`
}

func (r *UpdateProficiencyRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Type != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Type))
		r.Type = &v
	}
}

func (r *UpdateProficiencyRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.Description.Present && r.Description.Value != nil && len(*r.Description.Value) > 500 {
		vb.Field("description", "must contain at most 500 item(s) or character(s)")
	}
	if r.AbilityScore.Present && r.AbilityScore.Value != nil {
		if _, ok := constants.NormalizeAbility(*r.AbilityScore.Value); !ok {
			vb.Fieldf("ability_score", "must be one of: %s", strings.Join(constants.Abilities, ", "))
		}
	}
}

func (r *UpdateProficiencyRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description.Present {
		up["description"] = r.Description.Value
	}
	if r.Type != nil {
		up["type"] = *r.Type
	}
	if r.AbilityScore.Present {
		up["ability_score"] = normalizeAbilityPtr(r.AbilityScore.Value)
	}
	return up
}

func normalizeAbilityPtr(p *string) *string {
	if p == nil {
		return nil
	}
	if a, ok := constants.NormalizeAbility(*p); ok {
		return &a
	}
	v := strings.TrimSpace(*p)
	return &v
}

/* =======================================================
   RESPONSE
   ======================================================= */

type ProficiencyResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Type         string    `json:"type"`
	AbilityScore *string   `json:"ability_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToProficiencyResponse(m model.Proficiency) ProficiencyResponse {
	return ProficiencyResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Type:         m.Type,
		AbilityScore: m.AbilityScore,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToProficiencyResponses(rows []model.Proficiency) []ProficiencyResponse {
	out := make([]ProficiencyResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToProficiencyResponse(m))
	}
	return out
}
