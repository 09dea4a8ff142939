package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/justsurfingit/job-portal/internal/backend"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrCounterUpdate means an application was created but the job's applications
// counter could not be written back. The application stands; nothing is rolled back.
var ErrCounterUpdate = errors.New("application created but applications counter update failed")

const (
	featuredJobs       = 3
	sharedFetchTimeout = 30 * time.Second
)

// ApplicationInput is what an applicant submits for a job.
type ApplicationInput struct {
	CoverLetter    string
	ExpectedSalary float64
	ApplicantID    string
}

// PortalService keeps in-memory mirrors of jobs, companies and per-applicant
// applications, and orchestrates every fetch and mutation against the backend.
// Remote calls are made without holding the lock.
type PortalService struct {
	entities backend.Entities
	notify   Notifier
	log      *logrus.Entry
	now      func() time.Time

	mu           sync.RWMutex
	jobs         []models.Job
	companies    []models.Company
	applications map[string][]models.JobApplication

	loading atomic.Int32 // jobs and companies fetches in flight
	flight  singleflight.Group
}

func NewPortalService(entities backend.Entities, notify Notifier, log *logrus.Logger) *PortalService {
	return &PortalService{
		entities:     entities,
		notify:       notify,
		log:          log.WithField("component", "portal"),
		now:          time.Now,
		jobs:         []models.Job{},
		companies:    []models.Company{},
		applications: make(map[string][]models.JobApplication),
	}
}

// Load is the startup fetch: jobs and companies, concurrently.
func (s *PortalService) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.FetchJobs(ctx, nil) })
	g.Go(func() error { return s.FetchCompanies(ctx) })
	return g.Wait()
}

// FetchJobs replaces the job mirror with the backend's jobs, newest first. On failure
// the previous mirror is kept and the error is reported; callers may ignore it.
func (s *PortalService) FetchJobs(ctx context.Context, filter map[string]any) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	key, err := flightKey("jobs", filter)
	if err != nil {
		return err
	}
	return s.shared(ctx, key, func(ctx context.Context) error {
		jobs, err := s.entities.Jobs.List(ctx, backend.Query{
			Filter: filter,
			Sort:   map[string]int{"createdAt": backend.Descending},
		})
		if err != nil {
			s.log.WithError(err).Error("Failed to fetch jobs")
			s.notify.Error("Failed to load jobs")
			return err
		}
		s.mu.Lock()
		s.jobs = jobs
		s.mu.Unlock()
		return nil
	})
}

func (s *PortalService) FetchCompanies(ctx context.Context) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	return s.shared(ctx, "companies", func(ctx context.Context) error {
		companies, err := s.entities.Companies.List(ctx, backend.Query{
			Sort: map[string]int{"name": backend.Ascending},
		})
		if err != nil {
			s.log.WithError(err).Error("Failed to fetch companies")
			s.notify.Error("Failed to load companies")
			return err
		}
		s.mu.Lock()
		s.companies = companies
		s.mu.Unlock()
		return nil
	})
}

// FetchUserApplications refreshes one applicant's cached applications, newest first.
// It does not count towards Loading.
func (s *PortalService) FetchUserApplications(ctx context.Context, userID string) error {
	return s.shared(ctx, "applications:"+userID, func(ctx context.Context) error {
		apps, err := s.entities.Applications.List(ctx, backend.Query{
			Filter: map[string]any{"applicantId": userID},
			Sort:   map[string]int{"appliedAt": backend.Descending},
		})
		if err != nil {
			s.log.WithError(err).WithField("user_id", userID).Error("Failed to fetch applications")
			s.notify.Error("Failed to load applications")
			return err
		}
		s.mu.Lock()
		s.applications[userID] = apps
		s.mu.Unlock()
		return nil
	})
}

// shared runs fetch once per key across concurrent callers. The fetch is detached from
// the caller that started it and bounded by sharedFetchTimeout, so one caller going away
// does not fail the others; that caller just stops waiting.
func (s *PortalService) shared(ctx context.Context, key string, fetch func(context.Context) error) error {
	ch := s.flight.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return nil, fetch(fctx)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// CreateJob posts a new job with a zero counter and the current time, and puts it at
// the head of the mirror.
func (s *PortalService) CreateJob(ctx context.Context, job models.Job) (*models.Job, error) {
	job.ID = ""
	job.ApplicationsCount = 0
	job.CreatedAt = s.now().UTC()

	created, err := s.entities.Jobs.Create(ctx, job)
	if err != nil {
		s.log.WithError(err).Error("Failed to create job")
		s.notify.Error("Failed to post job")
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.mu.Lock()
	s.jobs = append([]models.Job{created}, s.jobs...)
	s.mu.Unlock()

	s.log.WithField("job_id", created.ID).Info("job posted")
	s.notify.Success("Job posted successfully")
	return &created, nil
}

// ApplyForJob creates a pending application and, when the job is mirrored, bumps its
// applications counter locally and then remotely. The two writes are not atomic: the
// counter is read from the mirror, so concurrent applicants can lose an increment,
// and a failed counter write leaves the application in place (ErrCounterUpdate).
func (s *PortalService) ApplyForJob(ctx context.Context, jobID string, in ApplicationInput) (*models.JobApplication, error) {
	app, err := s.entities.Applications.Create(ctx, models.JobApplication{
		JobID:          jobID,
		ApplicantID:    in.ApplicantID,
		Status:         models.ApplicationPending,
		CoverLetter:    in.CoverLetter,
		ExpectedSalary: in.ExpectedSalary,
		AppliedAt:      s.now().UTC(),
	})
	if err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Error("Failed to apply for job")
		s.notify.Error("Failed to submit application")
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.mu.Lock()
	s.applications[in.ApplicantID] = append([]models.JobApplication{app}, s.applications[in.ApplicantID]...)
	count, mirrored := 0, false
	if i := s.jobIndex(jobID); i >= 0 {
		s.jobs[i].ApplicationsCount++
		count, mirrored = s.jobs[i].ApplicationsCount, true
	}
	s.mu.Unlock()

	if mirrored {
		if _, err := s.entities.Jobs.Update(ctx, jobID, backend.Patch{"applicationsCount": count}); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"job_id":         jobID,
				"application_id": app.ID,
			}).Error("Failed to update applications counter")
			s.notify.Error("Failed to submit application")
			return &app, fmt.Errorf("%w: %w", ErrCounterUpdate, err)
		}
	}

	s.notify.Success("Application submitted successfully")
	return &app, nil
}

// UpdateApplicationStatus patches status (and feedback, if given) remotely and in
// every cached copy of the application.
func (s *PortalService) UpdateApplicationStatus(ctx context.Context, applicationID, status, feedback string) (*models.JobApplication, error) {
	now := s.now().UTC()
	patch := backend.Patch{"status": status, "updatedAt": now}
	if feedback != "" {
		patch["feedback"] = feedback
	}

	updated, err := s.entities.Applications.Update(ctx, applicationID, patch)
	if err != nil {
		s.log.WithError(err).WithField("application_id", applicationID).Error("Failed to update application")
		s.notify.Error("Failed to update application status")
		return nil, fmt.Errorf("update application: %w", err)
	}

	s.mu.Lock()
	for _, apps := range s.applications {
		for i := range apps {
			if apps[i].ID != applicationID {
				continue
			}
			apps[i].Status = status
			apps[i].UpdatedAt = &now
			if feedback != "" {
				apps[i].Feedback = feedback
			}
		}
	}
	s.mu.Unlock()

	s.notify.Success("Application status updated")
	return &updated, nil
}

// GetJobByID always goes to the backend.
func (s *PortalService) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.entities.Jobs.Get(ctx, jobID)
	if err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Error("Failed to fetch job")
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return &job, nil
}

// GetApplicationByID always goes to the backend.
func (s *PortalService) GetApplicationByID(ctx context.Context, applicationID string) (*models.JobApplication, error) {
	app, err := s.entities.Applications.Get(ctx, applicationID)
	if err != nil {
		s.log.WithError(err).WithField("application_id", applicationID).Error("Failed to fetch application")
		return nil, fmt.Errorf("get application %s: %w", applicationID, err)
	}
	return &app, nil
}

// HasUserApplied answers from the cached applications only.
func (s *PortalService) HasUserApplied(jobID, userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.applications[userID], func(a models.JobApplication) bool {
		return a.JobID == jobID && a.ApplicantID == userID
	})
}

func (s *PortalService) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.jobs)
}

func (s *PortalService) Companies() []models.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.companies)
}

func (s *PortalService) Applications(userID string) []models.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := slices.Clone(s.applications[userID])
	if apps == nil {
		apps = []models.JobApplication{}
	}
	return apps
}

func (s *PortalService) Loading() bool {
	return s.loading.Load() > 0
}

// Summary is the landing page: the newest jobs plus collection counts.
func (s *PortalService) Summary() dtos.HomeSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	featured := slices.Clone(s.jobs[:min(featuredJobs, len(s.jobs))])
	return dtos.HomeSummary{
		Featured: featured,
		Stats: dtos.Stats{
			ActiveJobs: len(s.jobs),
			Companies:  len(s.companies),
		},
	}
}

// jobIndex must be called with mu held.
func (s *PortalService) jobIndex(jobID string) int {
	return slices.IndexFunc(s.jobs, func(j models.Job) bool { return j.ID == jobID })
}

// flightKey collapses identical in-flight list queries.
func flightKey(collection string, filter map[string]any) (string, error) {
	if len(filter) == 0 {
		return collection, nil
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("encode %s filter: %w", collection, err)
	}
	return collection + ":" + string(data), nil
}
