// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

// Subject is the identity encoded into both token kinds.
type Subject struct {
	UserID string
	Role   core.Role
	Name   string
}

type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

type Claims struct {
	Subject
	TokenID   string
	ExpiresAt time.Time
}

func (c *Claims) Identity() *middleware.Identity {
	return &middleware.Identity{
		UserID:    c.UserID,
		Role:      c.Role,
		Name:      c.Name,
		TokenID:   c.TokenID,
		ExpiresAt: c.ExpiresAt,
	}
}

// ttl is how long a denylist entry for this token must live.
func (c *Claims) ttl(now time.Time) time.Duration {
	return c.ExpiresAt.Sub(now)
}
