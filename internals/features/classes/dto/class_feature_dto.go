package dto

import (
	"strings"
	"time"

	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/classes/model"
	helper "dndbuilder_backend/internals/helpers"
)

type CreateClassFeatureRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required"`
	Level       int    `json:"level" validate:"required,min=1,max=20"`
	IsOptional  bool   `json:"is_optional"`
	SourceBook  string `json:"source_book" validate:"max=50"`
	SourcePage  *int   `json:"source_page" validate:"omitempty,min=1"`
	ClassID     uint   `json:"class_id" validate:"required,gt=0"`
	SubclassID  *uint  `json:"subclass_id" validate:"omitempty,gt=0"`
}

func (r *CreateClassFeatureRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.SourceBook = strings.TrimSpace(r.SourceBook)
	if r.SourceBook == "" {
		r.SourceBook = defaultSourceBook
	}
}

func (r *CreateClassFeatureRequest) ToModel() model.ClassFeature {
	return model.ClassFeature{
		Name:        r.Name,
		Description: r.Description,
		Level:       r.Level,
		IsOptional:  r.IsOptional,
		SourceBook:  r.SourceBook,
		SourcePage:  r.SourcePage,
		ClassID:     r.ClassID,
		SubclassID:  r.SubclassID,
	}
}

// UpdateClassFeatureRequest: subclass_id and source_page may be cleared
// with null.
type UpdateClassFeatureRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string                `json:"description" validate:"omitempty,min=1"`
	Level       *int                   `json:"level" validate:"omitempty,min=1,max=20"`
	IsOptional  *bool                  `json:"is_optional"`
	SourceBook  *string                `json:"source_book" validate:"omitempty,min=1,max=50"`
	SourcePage  helper.Optional[*int]  `json:"source_page"`
	ClassID     *uint                  `json:"class_id" validate:"omitempty,gt=0"`
	SubclassID  helper.Optional[*uint] `json:"subclass_id"`
}

func (r *UpdateClassFeatureRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
}

func (r *UpdateClassFeatureRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.SourcePage.Present && r.SourcePage.Value != nil && *r.SourcePage.Value < 1 {
		vb.Field("source_page", "must be greater than or equal to 1")
	}
	if r.SubclassID.Present && r.SubclassID.Value != nil && *r.SubclassID.Value == 0 {
		vb.Field("subclass_id", "must be a positive integer")
	}
}

func (r *UpdateClassFeatureRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.Level != nil {
		up["level"] = *r.Level
	}
	if r.IsOptional != nil {
		up["is_optional"] = *r.IsOptional
	}
	if r.SourceBook != nil {
		up["source_book"] = *r.SourceBook
	}
	if r.SourcePage.Present {
		up["source_page"] = r.SourcePage.Value
	}
	if r.ClassID != nil {
		up["class_id"] = *r.ClassID
	}
	if r.SubclassID.Present {
		up["subclass_id"] = r.SubclassID.Value
	}
	return up
}

type ClassFeatureResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Level       int       `json:"level"`
	IsOptional  bool      `json:"is_optional"`
	SourceBook  string    `json:"source_book"`
	SourcePage  *int      `json:"source_page"`
	ClassID     uint      `json:"class_id"`
	SubclassID  *uint     `json:"subclass_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToClassFeatureResponse(m model.ClassFeature) ClassFeatureResponse {
	return ClassFeatureResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Level:       m.Level,
		IsOptional:  m.IsOptional,
		SourceBook:  m.SourceBook,
		SourcePage:  m.SourcePage,
		ClassID:     m.ClassID,
		SubclassID:  m.SubclassID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
