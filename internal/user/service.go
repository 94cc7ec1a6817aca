// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/volunteer-hub/internal/auth"
	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

// ParticipationProvider lists the projects a user has joined.
type ParticipationProvider interface {
	ParticipatingIn(ctx context.Context, userID string) ([]ProjectSummary, error)
}

type Service struct {
	repo          Repository
	hasher        *core.PasswordHasher
	participation ParticipationProvider
}

func NewService(
	repo Repository,
	hasher *core.PasswordHasher,
	participation ParticipationProvider,
) *Service {
	return &Service{
		repo:          repo,
		hasher:        hasher,
		participation: participation,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, auth.NormalizeEmail(email))
}

func (s *Service) Create(ctx context.Context, nu auth.NewUser) (*auth.UserInfo, error) {
	role := nu.Role
	if !role.Valid() {
		role = core.RoleUser
	}

	user := &User{
		ID:               uuid.New().String(),
		Name:             nu.Name,
		Email:            auth.NormalizeEmail(nu.Email),
		PasswordHash:     nu.PasswordHash,
		Role:             role,
		OrganizerRequest: nu.OrganizerRequest,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Profile is a user together with the projects they have joined.
type Profile struct {
	User     *User
	Projects []ProjectSummary
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects := []ProjectSummary{}
	if s.participation != nil {
		projects, err = s.participation.ParticipatingIn(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("get profile: %w", err)
		}
	}

	return &Profile{User: user, Projects: projects}, nil
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	current, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := ProfileChanges{Name: req.Name}

	if req.Email != nil && *req.Email != current.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("update me: %w", err)
		}
		if exists {
			return nil, auth.ErrEmailExists
		}
		changes.Email = req.Email
	}

	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("update me: %w", err)
		}
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		return current, nil
	}

	user, err := s.repo.UpdateProfile(ctx, current.ID, changes)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, auth.ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) ListOrganizerRequests(ctx context.Context) ([]User, error) {
	return s.repo.ListOrganizerRequests(ctx)
}

func (s *Service) ApproveOrganizer(ctx context.Context, id string) (*User, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("approve organizer: %w", core.ErrNotFound)
	}
	return s.repo.ApproveOrganizer(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, error) {
	if params.Role != "" {
		role, err := core.ParseRole(params.Role)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		params.Role = role.String()
	}
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	parsed, err := core.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if !isUUID(id) {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}

	return s.repo.UpdateRole(ctx, id, parsed)
}

func (s *Service) getUser(ctx context.Context, id string) (*User, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		PasswordHash:     u.PasswordHash,
		Role:             u.Role,
		OrganizerRequest: u.OrganizerRequest,
		CreatedAt:        u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
