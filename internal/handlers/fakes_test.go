package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/justsurfingit/job-portal/internal/backend"
	"github.com/justsurfingit/job-portal/internal/models"
)

type memCollection[T any] struct {
	mu        sync.Mutex
	items     []T
	id        func(*T) *string
	listErr   error
	updateErr error
	updates   int
}

func (m *memCollection[T]) List(ctx context.Context, q backend.Query) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]T{}, m.items...), nil
}

func (m *memCollection[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if *m.id(&item) == id {
			return item, nil
		}
	}
	var zero T
	return zero, &backend.RequestError{Op: "get", StatusCode: 404, Message: "not found"}
}

func (m *memCollection[T]) Create(ctx context.Context, entity T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.id(&entity) = fmt.Sprintf("new-%d", len(m.items)+1)
	m.items = append(m.items, entity)
	return entity, nil
}

func (m *memCollection[T]) Update(ctx context.Context, id string, patch backend.Patch) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	var zero T
	if m.updateErr != nil {
		return zero, m.updateErr
	}
	for _, item := range m.items {
		if *m.id(&item) == id {
			return item, nil
		}
	}
	return zero, &backend.RequestError{Op: "update", StatusCode: 404, Message: "not found"}
}

type memBackend struct {
	jobs         *memCollection[models.Job]
	companies    *memCollection[models.Company]
	applications *memCollection[models.JobApplication]
}

func newMemBackend() *memBackend {
	return &memBackend{
		jobs:         &memCollection[models.Job]{id: func(j *models.Job) *string { return &j.ID }},
		companies:    &memCollection[models.Company]{id: func(c *models.Company) *string { return &c.ID }},
		applications: &memCollection[models.JobApplication]{id: func(a *models.JobApplication) *string { return &a.ID }},
	}
}

func (b *memBackend) entities() backend.Entities {
	return backend.Entities{Jobs: b.jobs, Companies: b.companies, Applications: b.applications}
}

type stubSessions struct {
	session *backend.Session
	err     error
	signOut []string
}

func (s *stubSessions) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	return s.session, s.err
}

func (s *stubSessions) SignOut(ctx context.Context, token string) error {
	s.signOut = append(s.signOut, token)
	return nil
}
