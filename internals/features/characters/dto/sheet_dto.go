package dto

import (
	"strings"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
)

// UpdateAbilityScoreRequest patches one ability breakdown row.
type UpdateAbilityScoreRequest struct {
	BaseValue   *int `json:"base_value" validate:"omitempty,min=1,max=20"`
	RacialBonus *int `json:"racial_bonus" validate:"omitempty,min=-5,max=5"`
	AsiBonus    *int `json:"asi_bonus" validate:"omitempty,min=0,max=10"`
	MiscBonus   *int `json:"misc_bonus" validate:"omitempty,min=-10,max=10"`
}

func (r *UpdateAbilityScoreRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.BaseValue == nil && r.RacialBonus == nil && r.AsiBonus == nil && r.MiscBonus == nil {
		vb.Field("body", "at least one of base_value, racial_bonus, asi_bonus, misc_bonus is required")
	}
}

func (r *UpdateAbilityScoreRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.BaseValue != nil {
		up["base_value"] = *r.BaseValue
	}
	if r.RacialBonus != nil {
		up["racial_bonus"] = *r.RacialBonus
	}
	if r.AsiBonus != nil {
		up["asi_bonus"] = *r.AsiBonus
	}
	if r.MiscBonus != nil {
		up["misc_bonus"] = *r.MiscBonus
	}
	return up
}

// UpsertSkillRequest sets the proficiency level of one skill.
type UpsertSkillRequest struct {
	ProficiencyID    uint   `json:"proficiency_id" validate:"required,gt=0"`
	ProficiencyLevel string `json:"proficiency_level" validate:"proflevel"`
}

func (r *UpsertSkillRequest) Normalize() {
	r.ProficiencyLevel = strings.ToLower(strings.TrimSpace(r.ProficiencyLevel))
	if r.ProficiencyLevel == "" {
		r.ProficiencyLevel = string(constants.ProficiencyLevelProficient)
	}
}
