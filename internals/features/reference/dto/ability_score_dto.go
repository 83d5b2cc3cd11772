package dto

import (
	"time"

	"dndbuilder_backend/internals/features/reference/model"
)

type AbilityScoreResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToAbilityScoreResponse(m model.AbilityScore) AbilityScoreResponse {
	return AbilityScoreResponse{
		ID:           m.ID,
		Name:         m.Name,
		Abbreviation: m.Abbreviation,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
