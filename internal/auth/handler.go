// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

const (
	RefreshTokenHeader = "X-Refresh-Token"
	maxAuthBodyBytes   = 1 << 16
)

type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
	MaxAge time.Duration
}

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookie    CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookie:    cookie,
	}
}

// RegisterRoutes mounts the credential endpoints on r, which is expected to
// be the /auth route group. limiter guards the endpoints that accept
// credentials.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})
	r.Post("/logout", h.Logout)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()
	if req.Email != "" {
		taken, err := h.service.EmailRegistered(r.Context(), req.Email)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		if taken {
			core.JSONError(w, core.ConflictError("Email already registered"))
			return
		}
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.FieldErrors(err)))
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.ConflictError("Email already registered"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	slog.Info("user registered",
		"user_id", session.User.ID,
		"role", session.User.Role,
	)

	h.setRefreshCookie(w, session.RefreshToken)
	core.Created(w, AuthResponse{
		AccessToken: session.AccessToken.Token,
		User:        ToUserResponse(session.User),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Email = NormalizeEmail(req.Email)
	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.FieldErrors(err)))
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.UnauthorizedError("Invalid email or password"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	core.OK(w, AuthResponse{
		AccessToken: session.AccessToken.Token,
		User:        ToUserResponse(session.User),
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	access, err := h.service.Refresh(r.Context(), h.refreshTokenFrom(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingRefreshToken):
			core.JSONError(w, core.NewAppError(
				err,
				"refresh token required",
				http.StatusUnauthorized,
				"MISSING_TOKEN",
			))
		case errors.Is(err, core.ErrTokenExpired),
			errors.Is(err, core.ErrTokenRevoked),
			errors.Is(err, core.ErrTokenInvalid):
			core.JSONError(w, core.NewAppError(
				err,
				"invalid refresh token",
				http.StatusForbidden,
				"INVALID_REFRESH_TOKEN",
			))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, RefreshResponse{AccessToken: access.Token})
}

// Logout always succeeds for the client. Denylist failures are logged.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFrom(r)
	accessToken := middleware.ExtractToken(r)

	if err := h.service.Logout(r.Context(), refreshToken, accessToken); err != nil {
		slog.Warn("token revocation failed on logout", "error", err)
	}

	h.clearRefreshCookie(w)
	core.OK(w, MessageResponse{Message: "Logged out"})
}

// refreshTokenFrom reads the refresh token from the cookie, then the JSON
// body, then the X-Refresh-Token header.
func (h *Handler) refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(h.cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}

	var req RefreshRequest
	if err := decodeJSON(r, &req); err == nil && req.RefreshToken != "" {
		return strings.TrimSpace(req.RefreshToken)
	}

	return strings.TrimSpace(r.Header.Get(RefreshTokenHeader))
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token.Token,
		Path:     h.cookie.Path,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(io.LimitReader(r.Body, maxAuthBodyBytes)).Decode(dst)
}
