// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSONError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, ForbiddenError(""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	assert.Equal(t, "access denied", resp.Error.Message)
}

func TestJSONError_UnexpectedErrorIsNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: relation \"users\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
	resp := decode(t, rec)
	assert.Equal(t, "internal server error", resp.Error.Message)
}

func TestValidationError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, ValidationError([]FieldError{
		{Field: "title", Message: "title must be at least 3 chars"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "title", resp.Error.Details[0].Field)
}

func TestConflictError_IsBadRequest(t *testing.T) {
	err := ConflictError("Email already registered")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestOK_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int{"projects": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"projects":3}}`, rec.Body.String())
}

type signup struct {
	Name  string `json:"name"  validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func TestFieldErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(signup{Name: "A", Email: "nope"})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "name must be at least 2 chars", fields[0].Message)
	assert.Equal(t, "email", fields[1].Field)
	assert.Equal(t, "Invalid email", fields[1].Message)
}
