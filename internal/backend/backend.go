// Package backend is the remote entity client: a typed list/get/create/update surface
// over the hosted backend's collections, plus its session primitives.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/justsurfingit/job-portal/internal/models"
)

const (
	CollectionJobs         = "jobs"
	CollectionCompanies    = "companies"
	CollectionApplications = "job_applications"
)

const (
	Ascending  = 1
	Descending = -1
)

// Query narrows a List call. Filter values are exact matches keyed by wire field name;
// Sort maps a wire field name to Ascending or Descending.
type Query struct {
	Filter map[string]any
	Sort   map[string]int
}

// Patch is a partial update keyed by wire field name.
type Patch map[string]any

type Collection[T any] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id string, patch Patch) (T, error)
}

// Entities bundles the three collections the portal works with.
type Entities struct {
	Jobs         Collection[models.Job]
	Companies    Collection[models.Company]
	Applications Collection[models.JobApplication]
}

var ErrNotFound = errors.New("entity not found")

// RequestError is the single "request failed" condition of the backend.
type RequestError struct {
	Op         string
	Collection string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Collection, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Collection, msg)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// DecodeError reports a backend payload that did not produce a valid entity.
type DecodeError struct {
	Collection string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Collection, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type validatable interface {
	Validate() error
}

func validateEntity[T any](collection string, entity *T) error {
	if v, ok := any(entity).(validatable); ok {
		if err := v.Validate(); err != nil {
			return &DecodeError{Collection: collection, Err: err}
		}
	}
	return nil
}

// sortedKeys gives filter and sort maps a stable iteration order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
