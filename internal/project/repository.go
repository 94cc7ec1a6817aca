// AngelaMos | 2026
// repository.go

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

type ListParams struct {
	UrgentOnly bool
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Detail, error)
	List(ctx context.Context, params ListParams) ([]Detail, error)
	ListByParticipant(ctx context.Context, userID string) ([]Detail, error)
	// Update locks the row, lets mutate change it, then writes it back, all in
	// one transaction. An error from mutate aborts without writing.
	Update(ctx context.Context, id string, mutate func(p *Project) error) (*Project, error)
	// Delete locks the row and removes it once authorize accepts it.
	Delete(ctx context.Context, id string, authorize func(p *Project) error) (*Project, error)
	AddParticipant(ctx context.Context, projectID, userID string) (bool, error)
	RemoveParticipant(ctx context.Context, projectID, userID string) (bool, error)
}

const projectColumns = `
		p.id, p.title, p.description, p.date_start, p.date_end, p.location,
		p.location_lat, p.location_lng, p.donation_link, p.urgent,
		p.organizer_id, p.image, p.created_at, p.updated_at`

const detailSelect = `
	SELECT ` + projectColumns + `,
	       o.name  AS organizer_name,
	       o.email AS organizer_email
	FROM projects p
	JOIN users o ON o.id = p.organizer_id`

type detailRow struct {
	Project
	OrganizerName  string `db:"organizer_name"`
	OrganizerEmail string `db:"organizer_email"`
}

type participantRow struct {
	ProjectID string    `db:"project_id"`
	JoinedAt  time.Time `db:"joined_at"`
	Person
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (
			id, title, description, date_start, date_end, location,
			location_lat, location_lng, donation_link, urgent, organizer_id, image
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Title,
		p.Description,
		p.DateStart,
		p.DateEnd,
		p.Location,
		p.LocationLat,
		p.LocationLng,
		p.DonationLink,
		p.Urgent,
		p.OrganizerID,
		p.Image,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Detail, error) {
	query := detailSelect + ` WHERE p.id = $1`

	var row detailRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	details, err := r.expand(ctx, []detailRow{row})
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &details[0], nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Detail, error) {
	query := detailSelect
	var args []any

	if params.UrgentOnly {
		query += ` WHERE p.urgent`
	}

	query += ` ORDER BY p.urgent DESC, p.date_start DESC, p.created_at DESC`

	if params.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, params.Limit)
	}

	var rows []detailRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	details, err := r.expand(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return details, nil
}

func (r *repository) ListByParticipant(ctx context.Context, userID string) ([]Detail, error) {
	query := detailSelect + `
	JOIN project_participants me ON me.project_id = p.id
	WHERE me.user_id = $1
	ORDER BY me.joined_at ASC`

	var rows []detailRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list participant projects: %w", err)
	}

	details, err := r.expand(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("list participant projects: %w", err)
	}

	return details, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	mutate func(p *Project) error,
) (*Project, error) {
	var updated Project

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		p, err := lockProject(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := mutate(p); err != nil {
			return err
		}

		query := `
			UPDATE projects
			SET title = $2, description = $3, date_start = $4, date_end = $5,
			    location = $6, location_lat = $7, location_lng = $8,
			    donation_link = $9, urgent = $10, image = $11, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err = tx.GetContext(ctx, &p.UpdatedAt, query,
			p.ID,
			p.Title,
			p.Description,
			p.DateStart,
			p.DateEnd,
			p.Location,
			p.LocationLat,
			p.LocationLng,
			p.DonationLink,
			p.Urgent,
			p.Image,
		)
		if err != nil {
			return mapWriteError(err)
		}

		updated = *p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return &updated, nil
}

func (r *repository) Delete(
	ctx context.Context,
	id string,
	authorize func(p *Project) error,
) (*Project, error) {
	var deleted Project

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		p, err := lockProject(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := authorize(p); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
			return err
		}

		deleted = *p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}

	return &deleted, nil
}

// AddParticipant inserts the membership row unless it already exists. The
// primary key makes concurrent joins by the same user collapse to one row.
// It reports whether a row was added.
func (r *repository) AddParticipant(
	ctx context.Context,
	projectID, userID string,
) (bool, error) {
	query := `
		INSERT INTO project_participants (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, projectID, userID)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("add participant: %w", core.ErrNotFound)
		}
		return false, fmt.Errorf("add participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add participant: %w", err)
	}

	return rows > 0, nil
}

// RemoveParticipant deletes the membership row and reports whether one
// existed. A missing project is reported as not found.
func (r *repository) RemoveParticipant(
	ctx context.Context,
	projectID, userID string,
) (bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM project_participants
			WHERE project_id = $1 AND user_id = $2
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1) AS project_exists,
		       (SELECT COUNT(*) FROM removed)               AS removed`

	var result struct {
		ProjectExists bool `db:"project_exists"`
		Removed       int  `db:"removed"`
	}
	if err := r.db.GetContext(ctx, &result, query, projectID, userID); err != nil {
		return false, fmt.Errorf("remove participant: %w", err)
	}

	if !result.ProjectExists {
		return false, fmt.Errorf("remove participant: %w", core.ErrNotFound)
	}

	return result.Removed > 0, nil
}

func lockProject(ctx context.Context, tx *sqlx.Tx, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1 FOR UPDATE`

	var p Project
	err := tx.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// expand attaches organizers and participants. Participants for all rows
// are loaded in one query.
func (r *repository) expand(ctx context.Context, rows []detailRow) ([]Detail, error) {
	details := make([]Detail, 0, len(rows))
	if len(rows) == 0 {
		return details, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query, args, err := sqlx.In(`
		SELECT pp.project_id, pp.joined_at, u.id, u.name, u.email
		FROM project_participants pp
		JOIN users u ON u.id = pp.user_id
		WHERE pp.project_id IN (?)
		ORDER BY pp.joined_at ASC, u.id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("build participant query: %w", err)
	}

	var participants []participantRow
	if err := r.db.SelectContext(ctx, &participants, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	byProject := make(map[string][]Person, len(rows))
	for _, p := range participants {
		byProject[p.ProjectID] = append(byProject[p.ProjectID], p.Person)
	}

	for _, row := range rows {
		people := byProject[row.ID]
		if people == nil {
			people = []Person{}
		}
		details = append(details, Detail{
			Project: row.Project,
			Organizer: Person{
				ID:    row.OrganizerID,
				Name:  row.OrganizerName,
				Email: row.OrganizerEmail,
			},
			Participants: people,
		})
	}

	return details, nil
}

func mapWriteError(err error) error {
	switch {
	case core.IsCheckViolation(err):
		return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", core.ErrNotFound, err)
	default:
		return err
	}
}
