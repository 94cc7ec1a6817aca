// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"
)

type RegisterRequest struct {
	Name             string `json:"name"             validate:"required,min=2,max=100"`
	Email            string `json:"email"            validate:"required,email,max=255"`
	Password         string `json:"password"         validate:"required,min=6,max=128"`
	Role             string `json:"role"             validate:"omitempty,max=32"`
	OrganizerRequest bool   `json:"organizerRequest"`
}

// Normalize trims the fields whose length rules apply to the trimmed value.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Role = strings.TrimSpace(r.Role)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	OrganizerRequest bool      `json:"organizerRequest"`
	CreatedAt        time.Time `json:"createdAt"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role.String(),
		OrganizerRequest: u.OrganizerRequest,
		CreatedAt:        u.CreatedAt,
	}
}
