package dto

import (
	"strings"
	"time"

	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/classes/model"
	helper "dndbuilder_backend/internals/helpers"
)

type CreateSubclassRequest struct {
	Name                string  `json:"name" validate:"required,min=1,max=100"`
	Description         string  `json:"description" validate:"required"`
	ClassID             uint    `json:"class_id" validate:"required,gt=0"`
	SpellcastingAbility *string `json:"spellcasting_ability" validate:"omitempty,ability"`
	SourceBook          string  `json:"source_book" validate:"max=50"`
}

func (r *CreateSubclassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.SpellcastingAbility = normalizeAbilityPtr(r.SpellcastingAbility)
	r.SourceBook = strings.TrimSpace(r.SourceBook)
	if r.SourceBook == "" {
		r.SourceBook = defaultSourceBook
	}
}

func (r *CreateSubclassRequest) ToModel() model.Subclass {
	return model.Subclass{
		Name:                r.Name,
		Description:         r.Description,
		ClassID:             r.ClassID,
		SpellcastingAbility: r.SpellcastingAbility,
		SourceBook:          r.SourceBook,
	}
}

type UpdateSubclassRequest struct {
	Name                *string                  `json:"name" validate:"omitempty,min=1,max=100"`
	Description         *string                  `json:"description" validate:"omitempty,min=1"`
	ClassID             *uint                    `json:"class_id" validate:"omitempty,gt=0"`
	SpellcastingAbility helper.Optional[*string] `json:"spellcasting_ability"`
	SourceBook          *string                  `json:"source_book" validate:"omitempty,min=1,max=50"`
}

func (r *UpdateSubclassRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.SpellcastingAbility.Present {
		r.SpellcastingAbility.Value = normalizeAbilityPtr(r.SpellcastingAbility.Value)
	}
}

func (r *UpdateSubclassRequest) Check(vb *apperrors.ValidationBuilder) {
	checkOptionalAbility(vb, "spellcasting_ability", r.SpellcastingAbility)
}

func (r *UpdateSubclassRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.ClassID != nil {
		up["class_id"] = *r.ClassID
	}
	if r.SpellcastingAbility.Present {
		up["spellcasting_ability"] = r.SpellcastingAbility.Value
	}
	if r.SourceBook != nil {
		up["source_book"] = *r.SourceBook
	}
	return up
}

type SubclassSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SubclassResponse struct {
	ID                  uint                              `json:"id"`
	Name                string                            `json:"name"`
	Description         string                            `json:"description"`
	ClassID             uint                              `json:"class_id"`
	Class               *ClassSummary                     `json:"class,omitempty"`
	SpellcastingAbility *string                           `json:"spellcasting_ability"`
	SourceBook          string                            `json:"source_book"`
	FeaturesByLevel     map[string][]ClassFeatureResponse `json:"features_by_level"`
	CreatedAt           time.Time                         `json:"created_at"`
	UpdatedAt           time.Time                         `json:"updated_at"`
}

// ToSubclassResponse renders a subclass with its loaded features; parent
// may be nil.
func ToSubclassResponse(m model.Subclass, parent *model.Class) SubclassResponse {
	resp := SubclassResponse{
		ID:                  m.ID,
		Name:                m.Name,
		Description:         m.Description,
		ClassID:             m.ClassID,
		SpellcastingAbility: m.SpellcastingAbility,
		SourceBook:          m.SourceBook,
		FeaturesByLevel:     GroupByLevel(m.Features),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if parent != nil {
		resp.Class = &ClassSummary{ID: parent.ID, Name: parent.Name, HitDie: parent.HitDie}
	}
	return resp
}
