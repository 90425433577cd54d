// ABOUTME: MutationCoordinator running the fetch-merge-write-invalidate pipeline
// ABOUTME: Validates patches before any network call and retries each call once

package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/openhealth/carebridge/internal/api"
)

// ResourcePatient names the aggregate patient record for change publication.
const ResourcePatient = "patient"

// ErrValidation wraps client-side field constraint violations. These surface
// synchronously to the initiating form; no network call is attempted.
var ErrValidation = errors.New("validation failed")

// Status is the caller-visible state of a mutation.
type Status string

// Mutation statuses
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result reports a mutation's terminal state.
type Result struct {
	Status Status
}

// Backend is the slice of the API client the coordinator needs.
type Backend interface {
	GetPatient(ctx context.Context) (*api.PatientRecord, error)
	PutPatient(ctx context.Context, record *api.PatientRecord) (*api.PatientRecord, error)
}

// Publisher receives resource-changed events after successful write-backs.
// The query cache implements this and marks dependent keys stale.
type Publisher interface {
	ResourceChanged(resource string)
}

// Coordinator performs aggregate-record mutations.
type Coordinator struct {
	backend   Backend
	publisher Publisher
	logger    *slog.Logger
	inflight  atomic.Int32
}

// NewCoordinator creates a coordinator writing through backend and publishing
// invalidations to publisher.
func NewCoordinator(backend Backend, publisher Publisher) *Coordinator {
	return &Coordinator{
		backend:   backend,
		publisher: publisher,
		logger:    slog.Default().With("component", "mutation"),
	}
}

// InFlight reports whether any mutation is currently pending.
func (c *Coordinator) InFlight() bool {
	return c.inflight.Load() > 0
}

// ValidateGoals checks goal metrics against the form's field constraints.
func ValidateGoals(metrics GoalMetrics) error {
	if metrics.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative", ErrValidation)
	}
	if metrics.Water < 0 {
		return fmt.Errorf("%w: water must not be negative", ErrValidation)
	}
	if metrics.Sleep < 0 || metrics.Sleep > 24 {
		return fmt.Errorf("%w: sleep must be between 0 and 24 hours", ErrValidation)
	}
	return nil
}

// ValidateProfile checks profile fields before submission.
func ValidateProfile(patch ProfilePatch) error {
	if patch.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if patch.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrValidation)
	}
	return nil
}

// UpdateProfile merges the patch into the profile block and writes the full
// record back.
func (c *Coordinator) UpdateProfile(ctx context.Context, patch ProfilePatch) (Result, error) {
	if err := ValidateProfile(patch); err != nil {
		return Result{Status: StatusError}, err
	}
	return c.write(ctx, func(record *api.PatientRecord) *api.PatientRecord {
		return MergeProfile(record, patch)
	})
}

// UpdateGoals upserts the metrics for the given date and writes the full
// record back, including the matching dashboard snapshot.
func (c *Coordinator) UpdateGoals(ctx context.Context, date string, metrics GoalMetrics) (Result, error) {
	if err := ValidateGoals(metrics); err != nil {
		return Result{Status: StatusError}, err
	}
	return c.write(ctx, func(record *api.PatientRecord) *api.PatientRecord {
		return MergeGoals(record, date, metrics)
	})
}

// write runs the fetch-merge-write pipeline with merge applied between the
// read and the write-back. Invalidation is published only after the write
// succeeds; nothing is patched speculatively.
func (c *Coordinator) write(ctx context.Context, merge func(*api.PatientRecord) *api.PatientRecord) (Result, error) {
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	current, err := withRetry(c.logger, "fetch", func() (*api.PatientRecord, error) {
		return c.backend.GetPatient(ctx)
	})
	if err != nil {
		return Result{Status: StatusError}, fmt.Errorf("fetching current record: %w", err)
	}

	merged := merge(current)

	_, err = withRetry(c.logger, "write-back", func() (*api.PatientRecord, error) {
		return c.backend.PutPatient(ctx, merged)
	})
	if err != nil {
		return Result{Status: StatusError}, fmt.Errorf("writing record: %w", err)
	}

	// Happens-after the successful write: dependent reads refetch from here on
	c.publisher.ResourceChanged(ResourcePatient)
	return Result{Status: StatusSuccess}, nil
}

// withRetry runs fn, retrying exactly once on failure. Timeouts,
// disconnections, and server errors are treated alike.
func withRetry[T any](logger *slog.Logger, op string, fn func() (T, error)) (T, error) {
	value, err := fn()
	if err == nil {
		return value, nil
	}
	logger.Debug("retrying after failure", "op", op, "error", err)
	return fn()
}
