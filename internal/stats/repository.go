// AngelaMos | 2026
// repository.go

package stats

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

// Counts are the public platform counters.
type Counts struct {
	Projects   int64 `db:"projects"`
	Volunteers int64 `db:"volunteers"`
}

type Counter interface {
	Counts(ctx context.Context) (Counts, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Counter {
	return &repository{db: db}
}

func (r *repository) Counts(ctx context.Context) (Counts, error) {
	query, args, err := sqlx.In(`
		SELECT
			(SELECT COUNT(*) FROM projects) AS projects,
			(SELECT COUNT(*) FROM users WHERE role IN (?)) AS volunteers`,
		volunteerRoles(),
	)
	if err != nil {
		return Counts{}, fmt.Errorf("build counts query: %w", err)
	}

	var counts Counts
	if err := r.db.GetContext(ctx, &counts, r.db.Rebind(query), args...); err != nil {
		return Counts{}, fmt.Errorf("count platform stats: %w", err)
	}

	return counts, nil
}

func volunteerRoles() []string {
	var roles []string
	for _, role := range core.Roles() {
		if role.CountsAsVolunteer() {
			roles = append(roles, role.String())
		}
	}
	return roles
}
