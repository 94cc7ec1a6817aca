// AngelaMos | 2026
// service.go

package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
	"github.com/carterperez-dev/volunteer-hub/internal/storage"
	"github.com/carterperez-dev/volunteer-hub/internal/user"
)

// Upload is an image submitted with a create or update request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Service struct {
	repo   Repository
	images storage.ImageStore
	forms  *formApplier
}

var _ user.ParticipationProvider = (*Service)(nil)

func NewService(repo Repository, images storage.ImageStore) *Service {
	return &Service{
		repo:   repo,
		images: images,
		forms:  newFormApplier(),
	}
}

func (s *Service) List(ctx context.Context, query ListQuery) ([]Detail, error) {
	return s.repo.List(ctx, ListParams{
		UrgentOnly: query.Urgent,
		Limit:      query.Limit,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Detail, error) {
	return s.repo.ListByParticipant(ctx, userID)
}

// ParticipatingIn lists the caller's projects for the profile view.
func (s *Service) ParticipatingIn(
	ctx context.Context,
	userID string,
) ([]user.ProjectSummary, error) {
	details, err := s.repo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]user.ProjectSummary, 0, len(details))
	for _, d := range details {
		out = append(out, user.ProjectSummary{
			ID:        d.ID,
			Title:     d.Title,
			DateStart: d.DateStart,
			DateEnd:   d.DateEnd,
			Location:  d.Location,
			Urgent:    d.Urgent,
			ImageURL:  s.ImageURL(d.Image),
		})
	}
	return out, nil
}

// Create validates the form before touching storage, so a rejected
// submission leaves neither a row nor an image behind.
func (s *Service) Create(
	ctx context.Context,
	identity *middleware.Identity,
	form Form,
	upload *Upload,
) (*Detail, error) {
	if identity == nil || !identity.Role.CanManageProjects() {
		return nil, fmt.Errorf("create project: %w", core.ErrForbidden)
	}

	p := &Project{
		ID:          uuid.New().String(),
		OrganizerID: identity.UserID,
	}
	if err := s.forms.apply(form, p); err != nil {
		return nil, err
	}

	key, err := s.saveImage(ctx, upload)
	if err != nil {
		return nil, err
	}
	if key != "" {
		p.Image = &key
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID)
}

// Update merges the form into the stored project under a row lock. A new
// image replaces the old one, which is removed only after the commit.
func (s *Service) Update(
	ctx context.Context,
	identity *middleware.Identity,
	id string,
	form Form,
	upload *Upload,
) (*Detail, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.ManageableBy(identity) {
		return nil, fmt.Errorf("update project: %w", core.ErrForbidden)
	}

	preview := current.Project
	if err := s.forms.apply(form, &preview); err != nil {
		return nil, err
	}

	key, err := s.saveImage(ctx, upload)
	if err != nil {
		return nil, err
	}

	var replaced *string
	_, err = s.repo.Update(ctx, id, func(p *Project) error {
		if !p.ManageableBy(identity) {
			return core.ErrForbidden
		}
		if err := s.forms.apply(form, p); err != nil {
			return err
		}
		if key != "" {
			replaced = p.Image
			p.Image = &key
		}
		return nil
	})
	if err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}

	if replaced != nil {
		s.discardImage(ctx, *replaced)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(
	ctx context.Context,
	identity *middleware.Identity,
	id string,
) error {
	if !isUUID(id) {
		return fmt.Errorf("delete project: %w", core.ErrNotFound)
	}

	deleted, err := s.repo.Delete(ctx, id, func(p *Project) error {
		if !p.ManageableBy(identity) {
			return core.ErrForbidden
		}
		return nil
	})
	if err != nil {
		return err
	}

	if deleted.Image != nil {
		s.discardImage(ctx, *deleted.Image)
	}

	return nil
}

// Join adds userID to the participants. It reports false when the user
// already participates.
func (s *Service) Join(ctx context.Context, userID, projectID string) (bool, error) {
	if !isUUID(projectID) {
		return false, fmt.Errorf("join project: %w", core.ErrNotFound)
	}
	return s.repo.AddParticipant(ctx, projectID, userID)
}

// Leave removes userID from the participants. It reports false when the
// user was not a participant.
func (s *Service) Leave(ctx context.Context, userID, projectID string) (bool, error) {
	if !isUUID(projectID) {
		return false, fmt.Errorf("leave project: %w", core.ErrNotFound)
	}
	return s.repo.RemoveParticipant(ctx, projectID, userID)
}

func (s *Service) ImageURL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	u := s.images.URL(*key)
	return &u
}

func (s *Service) saveImage(ctx context.Context, upload *Upload) (string, error) {
	if upload == nil {
		return "", nil
	}

	key, err := s.images.Save(ctx, upload.Filename, upload.ContentType, upload.Body)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", core.ValidationError([]core.FieldError{{
			Field:   "image",
			Message: "image must be a jpg, png, gif or webp file",
		}})
	case errors.Is(err, storage.ErrTooLarge):
		return "", core.ValidationError([]core.FieldError{{
			Field:   "image",
			Message: "image is too large",
		}})
	case err != nil:
		return "", fmt.Errorf("save image: %w", err)
	}

	return key, nil
}

func (s *Service) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete project image", "key", key, "error", err)
	}
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
