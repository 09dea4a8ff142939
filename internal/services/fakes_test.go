package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/justsurfingit/job-portal/internal/backend"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeCollection[T any] struct {
	mu        sync.Mutex
	items     []T
	queries   []backend.Query
	created   []T
	patches   map[string][]backend.Patch
	listErr   error
	getErr    error
	createErr error
	updateErr error
	nextID    int
	setID     func(*T, string)
	getID     func(T) string

	entered chan struct{}
	release chan struct{}
}

// List blocks on release, when set, after signalling entered. Like a real client it
// fails once ctx is done.
func (f *fakeCollection[T]) List(ctx context.Context, q backend.Query) ([]T, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]T{}, f.items...), nil
}

func (f *fakeCollection[T]) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeCollection[T]) Get(ctx context.Context, id string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	if f.getErr != nil {
		return zero, f.getErr
	}
	for _, item := range f.items {
		if f.getID(item) == id {
			return item, nil
		}
	}
	return zero, &backend.RequestError{Op: "get", StatusCode: 404, Message: "not found"}
}

func (f *fakeCollection[T]) Create(ctx context.Context, entity T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		var zero T
		return zero, f.createErr
	}
	f.nextID++
	f.setID(&entity, fmt.Sprintf("id-%d", f.nextID))
	f.created = append(f.created, entity)
	f.items = append(f.items, entity)
	return entity, nil
}

func (f *fakeCollection[T]) Update(ctx context.Context, id string, patch backend.Patch) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	if f.patches == nil {
		f.patches = make(map[string][]backend.Patch)
	}
	f.patches[id] = append(f.patches[id], patch)
	if f.updateErr != nil {
		return zero, f.updateErr
	}
	for _, item := range f.items {
		if f.getID(item) == id {
			return item, nil
		}
	}
	return zero, &backend.RequestError{Op: "update", StatusCode: 404, Message: "not found"}
}

type fakeBackend struct {
	jobs         *fakeCollection[models.Job]
	companies    *fakeCollection[models.Company]
	applications *fakeCollection[models.JobApplication]
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		jobs: &fakeCollection[models.Job]{
			setID: func(j *models.Job, id string) { j.ID = id },
			getID: func(j models.Job) string { return j.ID },
		},
		companies: &fakeCollection[models.Company]{
			setID: func(c *models.Company, id string) { c.ID = id },
			getID: func(c models.Company) string { return c.ID },
		},
		applications: &fakeCollection[models.JobApplication]{
			setID: func(a *models.JobApplication, id string) { a.ID = id },
			getID: func(a models.JobApplication) string { return a.ID },
		},
	}
}

func (b *fakeBackend) entities() backend.Entities {
	return backend.Entities{Jobs: b.jobs, Companies: b.companies, Applications: b.applications}
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func newTestPortal(b *fakeBackend) (*PortalService, *recordingNotifier, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	notify := &recordingNotifier{}
	return NewPortalService(b.entities(), notify, logger), notify, hook
}
