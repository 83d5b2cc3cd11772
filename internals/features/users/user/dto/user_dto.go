package dto

import (
	"strings"
	"time"

	apperrors "dndbuilder_backend/internals/errors"
	uModel "dndbuilder_backend/internals/features/users/user/model"
)

type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToUserResponse(u uModel.UserModel) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponses(rows []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for _, u := range rows {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// UpdateUserRequest is the superuser PATCH body for an account.
type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email,max=100"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
}

func (r *UpdateUserRequest) Check(vb *apperrors.ValidationBuilder) {
	if r.Email == nil && r.IsActive == nil && r.IsSuperuser == nil {
		vb.Field("body", "at least one of email, is_active, is_superuser is required")
	}
}

func (r *UpdateUserRequest) BuildUpdateMap() map[string]interface{} {
	up := make(map[string]interface{})
	if r.Email != nil {
		up["email"] = *r.Email
	}
	if r.IsActive != nil {
		up["is_active"] = *r.IsActive
	}
	if r.IsSuperuser != nil {
		up["is_superuser"] = *r.IsSuperuser
	}
	return up
}
