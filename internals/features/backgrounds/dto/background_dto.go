package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/backgrounds/model"
	refDTO "dndbuilder_backend/internals/features/reference/dto"
	helper "dndbuilder_backend/internals/helpers"
)

const defaultSourceBook = "PHB"

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type FeatureInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required"`
}

func (f *FeatureInput) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
}

type CreateBackgroundRequest struct {
	Name            string                 `json:"name" validate:"required,min=1,max=100"`
	Description     string                 `json:"description" validate:"required"`
	Equipment       []string               `json:"equipment" validate:"omitempty,dive,required"`
	Characteristics *model.Characteristics `json:"characteristics"`
	Feature         *FeatureInput          `json:"feature"`
	SourceBook      string                 `json:"source_book" validate:"max=50"`
	ProficiencyIDs  []uint                 `json:"proficiency_ids"`
}

func (r *CreateBackgroundRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.SourceBook = strings.TrimSpace(r.SourceBook)
	if r.SourceBook == "" {
		r.SourceBook = defaultSourceBook
	}
	if r.Feature != nil {
		r.Feature.normalize()
	}
}

func (r *CreateBackgroundRequest) ToModel() model.Background {
	return model.Background{
		Name:            r.Name,
		Description:     r.Description,
		Equipment:       datatypes.NewJSONSlice(helper.JSONArray(r.Equipment)),
		Characteristics: datatypes.NewJSONType(characteristicsOrEmpty(r.Characteristics)),
		SourceBook:      r.SourceBook,
	}
}

// UpdateBackgroundRequest: feature replaces the current one, null removes it.
type UpdateBackgroundRequest struct {
	Name            *string                        `json:"name" validate:"omitempty,min=1,max=100"`
	Description     *string                        `json:"description" validate:"omitempty,min=1"`
	Equipment       *[]string                      `json:"equipment" validate:"omitempty,dive,required"`
	Characteristics *model.Characteristics         `json:"characteristics"`
	Feature         helper.Optional[*FeatureInput] `json:"feature"`
	SourceBook      *string                        `json:"source_book" validate:"omitempty,min=1,max=50"`
	ProficiencyIDs  *[]uint                        `json:"proficiency_ids"`
}

func (r *UpdateBackgroundRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.SourceBook != nil {
		v := strings.TrimSpace(*r.SourceBook)
		r.SourceBook = &v
	}
	if r.Feature.Present && r.Feature.Value != nil {
		r.Feature.Value.normalize()
	}
}

func (r *UpdateBackgroundRequest) Check(vb *apperrors.ValidationBuilder) {
	if !r.Feature.Present || r.Feature.Value == nil {
		return
	}
	f := r.Feature.Value
	if f.Name == "" {
		vb.Field("feature.name", "field required")
	} else if len(f.Name) > 100 {
		vb.Field("feature.name", "must contain at most 100 item(s) or character(s)")
	}
	if f.Description == "" {
		vb.Field("feature.description", "field required")
	}
}

func (r *UpdateBackgroundRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.Equipment != nil {
		up["equipment"] = datatypes.NewJSONSlice(helper.JSONArray(*r.Equipment))
	}
	if r.Characteristics != nil {
		up["characteristics"] = datatypes.NewJSONType(characteristicsOrEmpty(r.Characteristics))
	}
	if r.SourceBook != nil {
		up["source_book"] = *r.SourceBook
	}
	return up
}

func characteristicsOrEmpty(c *model.Characteristics) model.Characteristics {
	if c == nil {
		return model.Characteristics{
			PersonalityTraits: []string{},
			Ideals:            []string{},
			Bonds:             []string{},
			Flaws:             []string{},
		}
	}
	return model.Characteristics{
		PersonalityTraits: helper.JSONArray(c.PersonalityTraits),
		Ideals:            helper.JSONArray(c.Ideals),
		Bonds:             helper.JSONArray(c.Bonds),
		Flaws:             helper.JSONArray(c.Flaws),
	}
}

/* =======================================================
   RESPONSE
   ======================================================= */

type BackgroundFeatureResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BackgroundResponse struct {
	ID              uint                         `json:"id"`
	Name            string                       `json:"name"`
	Description     string                       `json:"description"`
	Equipment       []string                     `json:"equipment"`
	Characteristics model.Characteristics        `json:"characteristics"`
	Feature         *BackgroundFeatureResponse   `json:"feature"`
	SourceBook      string                       `json:"source_book"`
	Proficiencies   []refDTO.ProficiencyResponse `json:"proficiencies"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

func ToBackgroundResponse(m model.Background) BackgroundResponse {
	ch := m.Characteristics.Data()
	resp := BackgroundResponse{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Equipment:       helper.JSONArray([]string(m.Equipment)),
		Characteristics: characteristicsOrEmpty(&ch),
		SourceBook:      m.SourceBook,
		Proficiencies:   refDTO.ToProficiencyResponses(m.Proficiencies),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Feature != nil {
		resp.Feature = &BackgroundFeatureResponse{
			ID:          m.Feature.ID,
			Name:        m.Feature.Name,
			Description: m.Feature.Description,
		}
	}
	return resp
}

func ToBackgroundResponses(rows []model.Background) []BackgroundResponse {
	out := make([]BackgroundResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToBackgroundResponse(m))
	}
	return out
}
