// AngelaMos | 2026
// fakes_test.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*User)}
}

func (m *memoryRepo) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryRepo) UpdateProfile(
	_ context.Context,
	id string,
	changes ProfileChanges,
) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryRepo) UpdateRole(_ context.Context, id string, role core.Role) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	u.Role = role
	if role == core.RoleOrganizer {
		u.OrganizerRequest = false
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) ApproveOrganizer(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("approve organizer: %w", core.ErrNotFound)
	}
	u.Role = core.RoleOrganizer
	u.OrganizerRequest = false
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) ListOrganizerRequests(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []User{}
	for _, u := range m.users {
		if u.OrganizerRequest {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (m *memoryRepo) List(_ context.Context, params ListUsersParams) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []User{}
	for _, u := range m.users {
		if params.Role != "" && u.Role.String() != params.Role {
			continue
		}
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(params.Search)) {
			continue
		}
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

type stubParticipation struct {
	projects map[string][]ProjectSummary
}

func (s *stubParticipation) ParticipatingIn(
	_ context.Context,
	userID string,
) ([]ProjectSummary, error) {
	if p, ok := s.projects[userID]; ok {
		return p, nil
	}
	return []ProjectSummary{}, nil
}
