// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

type User struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	Role             core.Role `db:"role"`
	OrganizerRequest bool      `db:"organizer_request"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ProfileChanges holds the self-service fields to overwrite. Nil fields are
// left as stored.
type ProfileChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (c ProfileChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil
}
