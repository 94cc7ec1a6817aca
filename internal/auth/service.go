// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already registered")
	ErrMissingRefreshToken = errors.New("refresh token required")
)

type UserInfo struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	Role             core.Role
	OrganizerRequest bool
	CreatedAt        time.Time
}

type NewUser struct {
	Name             string
	Email            string
	PasswordHash     string
	Role             core.Role
	OrganizerRequest bool
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Session is the result of a successful register or login.
type Session struct {
	User         *UserInfo
	AccessToken  *IssuedToken
	RefreshToken *IssuedToken
}

type Service struct {
	tokens         *TokenManager
	denylist       Denylist
	userProvider   UserProvider
	hasher         *core.PasswordHasher
	selfAssignable map[core.Role]struct{}
	now            func() time.Time
}

var _ middleware.TokenVerifier = (*Service)(nil)

func NewService(
	tokens *TokenManager,
	denylist Denylist,
	userProvider UserProvider,
	hasher *core.PasswordHasher,
	selfAssignableRoles []string,
) *Service {
	allowed := make(map[core.Role]struct{}, len(selfAssignableRoles))
	for _, name := range selfAssignableRoles {
		role, err := core.ParseRole(name)
		if err != nil {
			slog.Warn("ignoring unknown self-assignable role", "role", name)
			continue
		}
		allowed[role] = struct{}{}
	}

	return &Service{
		tokens:         tokens,
		denylist:       denylist,
		userProvider:   userProvider,
		hasher:         hasher,
		selfAssignable: allowed,
		now:            time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailRegistered reports whether an account already uses email.
func (s *Service) EmailRegistered(ctx context.Context, email string) (bool, error) {
	exists, err := s.userProvider.ExistsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := NormalizeEmail(req.Email)

	exists, err := s.EmailRegistered(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		PasswordHash:     passwordHash,
		Role:             s.resolveRole(req.Role),
		OrganizerRequest: req.OrganizerRequest,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueSession(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := s.userProvider.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return s.issueSession(user)
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated. Role and name are read from the store so a
// role change takes effect on the next refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*IssuedToken, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if err := s.checkDenylist(ctx, claims.TokenID); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	user, err := s.userProvider.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.tokens.CreateAccessToken(subjectOf(user))
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return access, nil
}

// Logout denylists whichever of the presented tokens still verify. Tokens
// that are already invalid or expired need no entry.
func (s *Service) Logout(ctx context.Context, refreshToken, accessToken string) error {
	var errs []error

	if refreshToken != "" {
		if claims, err := s.tokens.VerifyRefreshToken(refreshToken); err == nil {
			errs = append(errs, s.revoke(ctx, claims))
		}
	}

	if accessToken != "" {
		if claims, err := s.tokens.VerifyAccessToken(accessToken); err == nil {
			errs = append(errs, s.revoke(ctx, claims))
		}
	}

	return errors.Join(errs...)
}

// VerifyAccessToken validates the signature and claims and refuses tokens
// revoked by logout. A denylist lookup failure rejects the token.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	if err := s.checkDenylist(ctx, claims.TokenID); err != nil {
		return nil, err
	}

	return claims.Identity(), nil
}

func (s *Service) checkDenylist(ctx context.Context, tokenID string) error {
	revoked, err := s.denylist.IsRevoked(ctx, tokenID)
	if err != nil {
		slog.Error("denylist lookup failed", "error", err)
		return fmt.Errorf("denylist: %w", core.ErrTokenInvalid)
	}
	if revoked {
		return fmt.Errorf("denylist: %w", core.ErrTokenRevoked)
	}
	return nil
}

func (s *Service) revoke(ctx context.Context, claims *Claims) error {
	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ttl(s.now())); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// resolveRole downgrades unknown or non-self-assignable roles to user.
func (s *Service) resolveRole(requested string) core.Role {
	if requested == "" {
		return core.RoleUser
	}

	role, err := core.ParseRole(requested)
	if err != nil {
		return core.RoleUser
	}

	if _, ok := s.selfAssignable[role]; !ok {
		return core.RoleUser
	}

	return role
}

func (s *Service) issueSession(user *UserInfo) (*Session, error) {
	sub := subjectOf(user)

	access, err := s.tokens.CreateAccessToken(sub)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.tokens.CreateRefreshToken(sub)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func subjectOf(user *UserInfo) Subject {
	return Subject{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	}
}
