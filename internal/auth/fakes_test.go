// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/volunteer-hub/internal/config"
	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*UserInfo)}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user by id: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Create(_ context.Context, nu NewUser) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == nu.Email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	u := &UserInfo{
		ID:               uuid.New().String(),
		Email:            nu.Email,
		Name:             nu.Name,
		PasswordHash:     nu.PasswordHash,
		Role:             nu.Role,
		OrganizerRequest: nu.OrganizerRequest,
		CreatedAt:        time.Now(),
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) setRole(userID string, role core.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].Role = role
}

func (f *fakeUsers) remove(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Duration)}
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:       strings.Repeat("a", 32),
		RefreshSecret:      strings.Repeat("r", 32),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "volunteer-hub",
		Audience:           "volunteer-hub-api",
	}
}

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)
	return m
}

type testEnv struct {
	service  *Service
	users    *fakeUsers
	denylist *fakeDenylist
	tokens   *TokenManager
}

func newTestEnv(t *testing.T, selfAssignable ...string) *testEnv {
	t.Helper()

	if len(selfAssignable) == 0 {
		selfAssignable = []string{"user", "organizer", "admin"}
	}

	hasher, err := core.NewPasswordHasher(4)
	require.NoError(t, err)

	env := &testEnv{
		users:    newFakeUsers(),
		denylist: newFakeDenylist(),
		tokens:   newTestTokenManager(t),
	}
	env.service = NewService(env.tokens, env.denylist, env.users, hasher, selfAssignable)
	return env
}
