// ABOUTME: Tests for the mutation coordinator pipeline
// ABOUTME: Covers validation short-circuit, retries, publication ordering, and errors

package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhealth/carebridge/internal/api"
)

// fakeBackend scripts GetPatient/PutPatient behavior and records calls.
type fakeBackend struct {
	record    *api.PatientRecord
	getErrs   []error // consumed per GetPatient call; nil entries succeed
	putErrs   []error
	getCalls  int
	putCalls  int
	lastWrite *api.PatientRecord
}

func (f *fakeBackend) GetPatient(ctx context.Context) (*api.PatientRecord, error) {
	f.getCalls++
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	copied := *f.record
	return &copied, nil
}

func (f *fakeBackend) PutPatient(ctx context.Context, record *api.PatientRecord) (*api.PatientRecord, error) {
	f.putCalls++
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.record = record
	f.lastWrite = record
	return record, nil
}

// fakePublisher records published resource names.
type fakePublisher struct {
	published []string
}

func (f *fakePublisher) ResourceChanged(resource string) {
	f.published = append(f.published, resource)
}

func newTestBackend() *fakeBackend {
	return &fakeBackend{
		record: &api.PatientRecord{
			Profile: api.Profile{ID: 1, Name: "Ada Park", Age: 34},
			Goals: []api.GoalEntry{
				{Date: "2024-01-01", Steps: 5000, Water: 1.5, Sleep: 6},
			},
			Dashboard: api.Dashboard{Goals: api.DailyGoals{Steps: 5000, Water: 1.5, Sleep: 6}},
		},
	}
}

func TestCoordinator_UpdateGoals_FetchMergeWritePublish(t *testing.T) {
	backend := newTestBackend()
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	result, err := c.UpdateGoals(context.Background(), "2024-01-01", GoalMetrics{Steps: 8000, Water: 2, Sleep: 7})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)

	require.NotNil(t, backend.lastWrite)
	require.Len(t, backend.lastWrite.Goals, 1)
	assert.Equal(t, 8000, backend.lastWrite.Goals[0].Steps)
	assert.Equal(t, api.DailyGoals{Steps: 8000, Water: 2, Sleep: 7}, backend.lastWrite.Dashboard.Goals)

	assert.Equal(t, []string{ResourcePatient}, publisher.published)
}

func TestCoordinator_UpdateProfile_MergesIntoFetchedRecord(t *testing.T) {
	backend := newTestBackend()
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	result, err := c.UpdateProfile(context.Background(), ProfilePatch{
		Name: "Ada P. Park", Age: 35, Allergies: "none", Medications: "vitamin D",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)

	assert.Equal(t, "Ada P. Park", backend.lastWrite.Profile.Name)
	assert.Equal(t, int64(1), backend.lastWrite.Profile.ID)
	// Goals ride along unchanged in the full write-back
	require.Len(t, backend.lastWrite.Goals, 1)
	assert.Equal(t, 5000, backend.lastWrite.Goals[0].Steps)
}

func TestCoordinator_ValidationFailure_NoNetworkCall(t *testing.T) {
	backend := newTestBackend()
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	tests := []struct {
		name    string
		metrics GoalMetrics
	}{
		{"negative steps", GoalMetrics{Steps: -1, Water: 1, Sleep: 8}},
		{"negative water", GoalMetrics{Steps: 1, Water: -0.5, Sleep: 8}},
		{"sleep below range", GoalMetrics{Steps: 1, Water: 1, Sleep: -1}},
		{"sleep above range", GoalMetrics{Steps: 1, Water: 1, Sleep: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.UpdateGoals(context.Background(), "2024-01-01", tt.metrics)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, StatusError, result.Status)
		})
	}

	assert.Zero(t, backend.getCalls)
	assert.Zero(t, backend.putCalls)
	assert.Empty(t, publisher.published)
}

func TestCoordinator_ProfileValidation(t *testing.T) {
	c := NewCoordinator(newTestBackend(), &fakePublisher{})

	_, err := c.UpdateProfile(context.Background(), ProfilePatch{Name: "", Age: 30})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.UpdateProfile(context.Background(), ProfilePatch{Name: "Ada", Age: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCoordinator_TransientFetchFailureRetriesOnce(t *testing.T) {
	backend := newTestBackend()
	backend.getErrs = []error{errors.New("transient"), nil}
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	result, err := c.UpdateGoals(context.Background(), "2024-01-01", GoalMetrics{Steps: 100, Water: 1, Sleep: 8})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 2, backend.getCalls)
}

func TestCoordinator_FetchFailsAfterRetry(t *testing.T) {
	backend := newTestBackend()
	boom := errors.New("network down")
	backend.getErrs = []error{boom, boom}
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	result, err := c.UpdateGoals(context.Background(), "2024-01-01", GoalMetrics{Steps: 100, Water: 1, Sleep: 8})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, result.Status)

	assert.Equal(t, 2, backend.getCalls, "one attempt plus exactly one retry")
	assert.Zero(t, backend.putCalls, "no write after a failed fetch")
	assert.Empty(t, publisher.published)
}

func TestCoordinator_WriteFailsAfterRetry_NoPublication(t *testing.T) {
	backend := newTestBackend()
	boom := errors.New("write rejected")
	backend.putErrs = []error{boom, boom}
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	result, err := c.UpdateGoals(context.Background(), "2024-01-01", GoalMetrics{Steps: 100, Water: 1, Sleep: 8})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, result.Status)

	assert.Equal(t, 2, backend.putCalls)
	assert.Empty(t, publisher.published, "invalidation only happens-after a successful write")
}

func TestCoordinator_TransientWriteFailureRetriesOnce(t *testing.T) {
	backend := newTestBackend()
	backend.putErrs = []error{errors.New("transient"), nil}
	publisher := &fakePublisher{}
	c := NewCoordinator(backend, publisher)

	result, err := c.UpdateGoals(context.Background(), "2024-01-02", GoalMetrics{Steps: 100, Water: 1, Sleep: 8})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{ResourcePatient}, publisher.published)
}

func TestCoordinator_InFlight(t *testing.T) {
	c := NewCoordinator(newTestBackend(), &fakePublisher{})
	assert.False(t, c.InFlight())
}
