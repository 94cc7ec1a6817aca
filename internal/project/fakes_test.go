// AngelaMos | 2026
// fakes_test.go

package project

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
	"github.com/carterperez-dev/volunteer-hub/internal/storage"
)

// memoryRepo holds one lock for every operation, which gives the same
// atomicity the SQL statements provide.
type memoryRepo struct {
	mu           sync.Mutex
	people       map[string]Person
	projects     map[string]*Project
	participants map[string][]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		people:       make(map[string]Person),
		projects:     make(map[string]*Project),
		participants: make(map[string][]string),
	}
}

func (m *memoryRepo) addPerson(name string) Person {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := Person{ID: uuid.New().String(), Name: name, Email: name + "@example.com"}
	m.people[p.ID] = p
	return p
}

func (m *memoryRepo) Create(_ context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[p.OrganizerID]; !ok {
		return fmt.Errorf("create project: %w", core.ErrNotFound)
	}

	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	d := m.detail(p)
	return &d, nil
}

func (m *memoryRepo) List(_ context.Context, params ListParams) ([]Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Detail
	for _, p := range m.projects {
		if params.UrgentOnly && !p.Urgent {
			continue
		}
		out = append(out, m.detail(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Urgent != out[j].Urgent {
			return out[i].Urgent
		}
		return out[i].DateStart.After(out[j].DateStart)
	})

	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (m *memoryRepo) ListByParticipant(_ context.Context, userID string) ([]Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Detail{}
	for id, members := range m.participants {
		if slices.Contains(members, userID) {
			out = append(out, m.detail(m.projects[id]))
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(
	_ context.Context,
	id string,
	mutate func(p *Project) error,
) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("update project: %w", core.ErrNotFound)
	}

	cp := *stored
	if err := mutate(&cp); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	cp.UpdatedAt = time.Now()
	m.projects[id] = &cp
	out := cp
	return &out, nil
}

func (m *memoryRepo) Delete(
	_ context.Context,
	id string,
	authorize func(p *Project) error,
) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("delete project: %w", core.ErrNotFound)
	}

	cp := *stored
	if err := authorize(&cp); err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}

	delete(m.projects, id)
	delete(m.participants, id)
	return &cp, nil
}

func (m *memoryRepo) AddParticipant(_ context.Context, projectID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return false, fmt.Errorf("add participant: %w", core.ErrNotFound)
	}
	if slices.Contains(m.participants[projectID], userID) {
		return false, nil
	}
	m.participants[projectID] = append(m.participants[projectID], userID)
	return true, nil
}

func (m *memoryRepo) RemoveParticipant(_ context.Context, projectID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return false, fmt.Errorf("remove participant: %w", core.ErrNotFound)
	}

	members := m.participants[projectID]
	idx := slices.Index(members, userID)
	if idx < 0 {
		return false, nil
	}
	m.participants[projectID] = slices.Delete(members, idx, idx+1)
	return true, nil
}

func (m *memoryRepo) stored(id string) Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.projects[id]
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.projects)
}

func (m *memoryRepo) detail(p *Project) Detail {
	people := []Person{}
	for _, id := range m.participants[p.ID] {
		people = append(people, m.people[id])
	}
	return Detail{
		Project:      *p,
		Organizer:    m.people[p.OrganizerID],
		Participants: people,
	}
}

type testEnv struct {
	repo   *memoryRepo
	images *storage.LocalStore
	svc    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	images, err := storage.NewLocalStore(t.TempDir(), "/uploads", 1<<16)
	require.NoError(t, err)

	repo := newMemoryRepo()
	return &testEnv{
		repo:   repo,
		images: images,
		svc:    NewService(repo, images),
	}
}

func identityOf(p Person, role core.Role) *middleware.Identity {
	return &middleware.Identity{UserID: p.ID, Role: role, Name: p.Name}
}

func strp(s string) *string { return &s }

func validForm() Form {
	return Form{
		Title:       strp("Clean Park"),
		Description: strp("Help clean the park area"),
		DateStart:   strp("2025-01-01"),
		DateEnd:     strp("2025-01-02"),
	}
}
