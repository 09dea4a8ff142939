package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEntered(t *testing.T, entered chan struct{}) {
	t.Helper()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("list was never called")
	}
}

func TestConcurrentFetchJobsShareOneCall(t *testing.T) {
	b := newFakeBackend()
	b.jobs.items = []models.Job{{ID: "j1", Title: "Go Dev"}}
	b.jobs.entered = make(chan struct{}, 8)
	b.jobs.release = make(chan struct{})
	b.companies.items = []models.Company{{ID: "c1", Name: "Acme"}}
	portal, _, _ := newTestPortal(b)

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- portal.FetchJobs(context.Background(), nil)
		}()
	}
	waitEntered(t, b.jobs.entered)
	require.Eventually(t, func() bool { return portal.loading.Load() == 3 }, time.Second, time.Millisecond)
	// let the followers reach the in-flight call
	time.Sleep(20 * time.Millisecond)

	// companies finishing first must not clear loading for the pending jobs fetch
	require.NoError(t, portal.FetchCompanies(context.Background()))
	assert.True(t, portal.Loading())

	// applications fetches never count towards loading
	require.NoError(t, portal.FetchUserApplications(context.Background(), "u1"))
	assert.Equal(t, int32(3), portal.loading.Load())

	close(b.jobs.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, b.jobs.listCalls())
	assert.Len(t, portal.Jobs(), 1)
	assert.False(t, portal.Loading())
}

func TestFetchUserApplicationsInFlightIsNotLoading(t *testing.T) {
	b := newFakeBackend()
	b.applications.entered = make(chan struct{}, 1)
	b.applications.release = make(chan struct{})
	portal, _, _ := newTestPortal(b)

	done := make(chan error, 1)
	go func() { done <- portal.FetchUserApplications(context.Background(), "u1") }()
	waitEntered(t, b.applications.entered)

	assert.False(t, portal.Loading())
	close(b.applications.release)
	assert.NoError(t, <-done)
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	b := newFakeBackend()
	b.jobs.items = []models.Job{{ID: "j1", Title: "Go Dev"}}
	b.jobs.entered = make(chan struct{}, 2)
	b.jobs.release = make(chan struct{})
	portal, notify, _ := newTestPortal(b)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- portal.FetchJobs(ctx, nil) }()
	waitEntered(t, b.jobs.entered)

	second := make(chan error, 1)
	go func() { second <- portal.FetchJobs(context.Background(), nil) }()
	require.Eventually(t, func() bool { return portal.loading.Load() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(b.jobs.release)
	assert.NoError(t, <-second)
	assert.Equal(t, 1, b.jobs.listCalls())
	assert.Len(t, portal.Jobs(), 1)
	assert.Empty(t, notify.errors)
	assert.False(t, portal.Loading())
}
