// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/volunteer-hub/internal/auth"
	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

func newTestService(t *testing.T, participation ParticipationProvider) (*Service, *memoryRepo) {
	t.Helper()

	hasher, err := core.NewPasswordHasher(4)
	require.NoError(t, err)

	repo := newMemoryRepo()
	return NewService(repo, hasher, participation), repo
}

func seedUser(
	t *testing.T,
	svc *Service,
	name, email string,
	role core.Role,
	organizerRequest bool,
) *auth.UserInfo {
	t.Helper()

	u, err := svc.Create(context.Background(), auth.NewUser{
		Name:             name,
		Email:            email,
		PasswordHash:     "hash",
		Role:             role,
		OrganizerRequest: organizerRequest,
	})
	require.NoError(t, err)
	return u
}

func TestService_CreateDefaultsInvalidRole(t *testing.T) {
	svc, _ := newTestService(t, nil)

	u := seedUser(t, svc, "Ann", " ANN@x.com ", core.Role("wizard"), false)

	assert.Equal(t, core.RoleUser, u.Role)
	assert.Equal(t, "ann@x.com", u.Email)
}

func TestService_ApproveOrganizer(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	pending := seedUser(t, svc, "Pat", "pat@x.com", core.RoleUser, true)

	requests, err := svc.ListOrganizerRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	approved, err := svc.ApproveOrganizer(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RoleOrganizer, approved.Role)
	assert.False(t, approved.OrganizerRequest)

	requests, err = svc.ListOrganizerRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestService_ApproveOrganizerNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.ApproveOrganizer(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.ApproveOrganizer(context.Background(), "0b7e8f5c-4a8e-4d25-9d1a-2f8a6f0c1b3e")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_UpdateUserRole(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	pending := seedUser(t, svc, "Pat", "pat@x.com", core.RoleUser, true)

	_, err := svc.UpdateUserRole(ctx, pending.ID, "superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	updated, err := svc.UpdateUserRole(ctx, pending.ID, "organizer")
	require.NoError(t, err)
	assert.Equal(t, core.RoleOrganizer, updated.Role)
	assert.False(t, updated.OrganizerRequest)

	updated, err = svc.UpdateUserRole(ctx, pending.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, updated.Role)
}

func TestService_UpdateMe(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	ann := seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, false)
	seedUser(t, svc, "Bob", "bob@x.com", core.RoleUser, false)

	taken := "bob@x.com"
	_, err := svc.UpdateMe(ctx, ann.ID, UpdateMeRequest{Email: &taken})
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	name := "Annabel"
	email := "annabel@x.com"
	password := "new-secret"
	updated, err := svc.UpdateMe(ctx, ann.ID, UpdateMeRequest{
		Name:     &name,
		Email:    &email,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, "Annabel", updated.Name)
	assert.Equal(t, "annabel@x.com", updated.Email)

	stored, err := repo.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hash", stored.PasswordHash)
	assert.NotEqual(t, password, stored.PasswordHash)
}

func TestService_UpdateMeSameEmailIsNotAConflict(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ann := seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, false)

	same := "ann@x.com"
	updated, err := svc.UpdateMe(context.Background(), ann.ID, UpdateMeRequest{Email: &same})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", updated.Email)
}

func TestService_GetProfileIncludesProjects(t *testing.T) {
	participation := &stubParticipation{projects: map[string][]ProjectSummary{}}
	svc, _ := newTestService(t, participation)
	ann := seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, false)

	participation.projects[ann.ID] = []ProjectSummary{
		{ID: "p-1", Title: "Clean Park", DateStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	profile, err := svc.GetProfile(context.Background(), ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.User.Name)
	require.Len(t, profile.Projects, 1)
	assert.Equal(t, "Clean Park", profile.Projects[0].Title)
}

func TestService_ListUsersFilters(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, false)
	seedUser(t, svc, "Olga", "olga@x.com", core.RoleOrganizer, false)

	organizers, err := svc.ListUsers(ctx, ListUsersParams{Role: "Organizer"})
	require.NoError(t, err)
	require.Len(t, organizers, 1)
	assert.Equal(t, "Olga", organizers[0].Name)

	_, err = svc.ListUsers(ctx, ListUsersParams{Role: "wizard"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	found, err := svc.ListUsers(ctx, ListUsersParams{Search: "ann@"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}
