// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

// tokenIsUser treats the bearer token as "<user id>:<role>".
type tokenIsUser struct{}

func (tokenIsUser) VerifyAccessToken(_ context.Context, token string) (*middleware.Identity, error) {
	var id, role string
	for i := len(token) - 1; i >= 0; i-- {
		if token[i] == ':' {
			id, role = token[:i], token[i+1:]
			break
		}
	}
	parsed, err := core.ParseRole(role)
	if id == "" || err != nil {
		return nil, fmt.Errorf("stub: %w", core.ErrTokenInvalid)
	}
	return &middleware.Identity{UserID: id, Role: parsed}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()

	svc, _ := newTestService(t, &stubParticipation{})
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.Authenticator(tokenIsUser{}))
	})
	return r, svc
}

func call(
	t *testing.T,
	h http.Handler,
	method, path, token string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetMe(t *testing.T) {
	router, svc := newTestRouter(t)
	ann := seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, true)

	rec := call(t, router, http.MethodGet, "/api/auth/me", ann.ID+":user", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ann@x.com", resp.Data["email"])
	assert.Equal(t, true, resp.Data["organizerRequest"])
	assert.Equal(t, []any{}, resp.Data["projects"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandler_GetMeRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_UpdateMeValidation(t *testing.T) {
	router, svc := newTestRouter(t)
	ann := seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, false)

	rec := call(t, router, http.MethodPut, "/api/auth/me", ann.ID+":user",
		map[string]string{"password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password must be at least 6 chars")
}

func TestHandler_AdminRoutesRejectNonAdmins(t *testing.T) {
	router, svc := newTestRouter(t)
	org := seedUser(t, svc, "Olga", "olga@x.com", core.RoleOrganizer, false)
	token := org.ID + ":organizer"

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/organizer-requests"},
		{http.MethodPost, "/api/auth/approve-organizer/" + org.ID},
		{http.MethodGet, "/api/auth/users"},
		{http.MethodPatch, "/api/auth/users/" + org.ID + "/role"},
	}

	for _, p := range paths {
		rec := call(t, router, p.method, p.path, token, map[string]string{"role": "admin"})
		assert.Equal(t, http.StatusForbidden, rec.Code, p.path)
	}

	stored, err := svc.GetByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RoleOrganizer, stored.Role)
}

func TestHandler_ApproveOrganizer(t *testing.T) {
	router, svc := newTestRouter(t)
	admin := seedUser(t, svc, "Ada", "ada@x.com", core.RoleAdmin, false)
	pat := seedUser(t, svc, "Pat", "pat@x.com", core.RoleUser, true)
	token := admin.ID + ":admin"

	rec := call(t, router, http.MethodPost, "/api/auth/approve-organizer/"+pat.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"organizer"`)
	assert.Contains(t, rec.Body.String(), `"organizerRequest":false`)

	rec = call(t, router, http.MethodPost, "/api/auth/approve-organizer/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateUserRole(t *testing.T) {
	router, svc := newTestRouter(t)
	admin := seedUser(t, svc, "Ada", "ada@x.com", core.RoleAdmin, false)
	ann := seedUser(t, svc, "Ann", "ann@x.com", core.RoleUser, false)
	token := admin.ID + ":admin"
	path := "/api/auth/users/" + ann.ID + "/role"

	rec := call(t, router, http.MethodPatch, path, token, map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, router, http.MethodPatch, path, token, map[string]string{"role": "organizer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"organizer"`)
}
