// ABOUTME: Goals read and write: cached history plus the goals update mutation
// ABOUTME: Date is the caller-supplied natural key for the day's entry

package client

import (
	"context"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/mutation"
	"github.com/openhealth/carebridge/internal/querycache"
)

// Goals returns the patient's goal history, one entry per date.
func (c *Client) Goals(ctx context.Context) ([]api.GoalEntry, error) {
	return querycache.Lookup(ctx, c.cache, keyGoals, func(ctx context.Context) ([]api.GoalEntry, error) {
		record, err := c.api.GetPatient(ctx)
		if err != nil {
			return nil, err
		}
		return record.Goals, nil
	}, c.staleAfter)
}

// SetGoals updates the goals for date through the mutation coordinator.
// Dependent cached reads (goals, dashboard, profile) are invalidated only
// after the write-back succeeds.
func (c *Client) SetGoals(ctx context.Context, date string, metrics mutation.GoalMetrics) (mutation.Result, error) {
	return c.mutations.UpdateGoals(ctx, date, metrics)
}
