// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/auth"
)

type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=128"`
}

func (r *UpdateMeRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := auth.NormalizeEmail(*r.Email)
		r.Email = &email
	}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user organizer admin"`
}

type UserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	OrganizerRequest bool      `json:"organizerRequest"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ProjectSummary is a project the user participates in, as listed on the
// profile.
type ProjectSummary struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DateStart time.Time  `json:"dateStart"`
	DateEnd   *time.Time `json:"dateEnd,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Urgent    bool       `json:"urgent"`
	ImageURL  *string    `json:"imageUrl,omitempty"`
}

type ProfileResponse struct {
	UserResponse
	Projects []ProjectSummary `json:"projects"`
}

type ListUsersParams struct {
	Search string
	Role   string
}

type MessageResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role.String(),
		OrganizerRequest: u.OrganizerRequest,
		CreatedAt:        u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
