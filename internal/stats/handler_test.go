// AngelaMos | 2026
// handler_test.go

package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

type fixedCounter struct {
	counts Counts
	err    error
}

func (f fixedCounter) Counts(context.Context) (Counts, error) {
	return f.counts, f.err
}

// withRole authenticates every request as the role named in the token.
type withRole struct{}

func (withRole) VerifyAccessToken(_ context.Context, token string) (*middleware.Identity, error) {
	role, err := core.ParseRole(token)
	if err != nil {
		return nil, core.ErrTokenInvalid
	}
	return &middleware.Identity{UserID: "u-1", Role: role}, nil
}

func newRouter(cfg HandlerConfig) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(cfg).RegisterRoutes(r, middleware.Authenticator(withRole{}))
	})
	return r
}

func get(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetPlatformStats(t *testing.T) {
	h := newRouter(HandlerConfig{
		Counter: fixedCounter{counts: Counts{Projects: 4, Volunteers: 9}},
	})

	rec := get(h, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                  `json:"success"`
		Data    PlatformStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, PlatformStatsResponse{Projects: 4, Volunteers: 9, Donations: 0}, body.Data)
}

func TestGetPlatformStats_StoreFailureIsGeneric(t *testing.T) {
	h := newRouter(HandlerConfig{
		Counter: fixedCounter{err: errors.New("relation \"projects\" does not exist")},
	})

	rec := get(h, "/api/stats", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestAdminStats_RequiresAdmin(t *testing.T) {
	h := newRouter(HandlerConfig{Counter: fixedCounter{}})

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/admin/stats", "").Code)
	assert.Equal(t, http.StatusForbidden, get(h, "/api/admin/stats", "organizer").Code)
	assert.Equal(t, http.StatusOK, get(h, "/api/admin/stats", "admin").Code)
}

func TestAdminStats_ReportsDependencies(t *testing.T) {
	h := newRouter(HandlerConfig{
		Counter:   fixedCounter{},
		DBStats:   func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 3} },
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return errors.New("down") },
	})

	rec := get(h, "/api/admin/stats", "admin")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Data.Database.Healthy)
	require.NotNil(t, body.Data.Database.Stats)
	assert.Equal(t, 25, body.Data.Database.Stats.MaxOpenConnections)
	assert.Equal(t, 3, body.Data.Database.Stats.InUse)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Nil(t, body.Data.Redis.Stats)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
	assert.Positive(t, body.Data.Runtime.NumCPU)
}

func TestVolunteerRoles(t *testing.T) {
	assert.ElementsMatch(t, []string{"user", "organizer"}, volunteerRoles())
}
