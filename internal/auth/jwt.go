// AngelaMos | 2026
// jwt.go

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/volunteer-hub/internal/config"
	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenManager signs access and refresh tokens with separate HMAC secrets.
type TokenManager struct {
	accessKey  []byte
	refreshKey []byte
	config     config.JWTConfig
	now        func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("jwt secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("jwt access and refresh secrets must differ")
	}

	return &TokenManager{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		config:     cfg,
		now:        time.Now,
	}, nil
}

func (m *TokenManager) CreateAccessToken(sub Subject) (*IssuedToken, error) {
	return m.sign(sub, tokenTypeAccess, m.accessKey, m.config.AccessTokenExpire)
}

func (m *TokenManager) CreateRefreshToken(sub Subject) (*IssuedToken, error) {
	return m.sign(sub, tokenTypeRefresh, m.refreshKey, m.config.RefreshTokenExpire)
}

func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, tokenTypeAccess, m.accessKey)
}

func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, tokenTypeRefresh, m.refreshKey)
}

func (m *TokenManager) sign(
	sub Subject,
	tokenType string,
	key []byte,
	ttl time.Duration,
) (*IssuedToken, error) {
	now := m.now()
	jti := uuid.New().String()
	expiresAt := now.Add(ttl)

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(sub.UserID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim("role", sub.Role.String()).
		Claim("name", sub.Name).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		ID:        jti,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

func (m *TokenManager) verify(
	tokenString string,
	wantType string,
	key []byte,
) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(m.now)),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil || tokenType != wantType {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, fmt.Errorf("verify token: missing jti: %w", core.ErrTokenInvalid)
	}

	var roleStr string
	if err := token.Get("role", &roleStr); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}
	role, err := core.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var name string
	//nolint:errcheck // name is informational and may be absent
	_ = token.Get("name", &name)

	expiresAt, _ := token.Expiration()

	return &Claims{
		Subject: Subject{
			UserID: subject,
			Role:   role,
			Name:   name,
		},
		TokenID:   jti,
		ExpiresAt: expiresAt,
	}, nil
}
