// ABOUTME: Patient dashboard read: cached projection of the aggregate record

package client

import (
	"context"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/querycache"
)

// Dashboard returns the patient's dashboard block: goal snapshot, reminders,
// and the health tip. Served from cache within the staleness window.
func (c *Client) Dashboard(ctx context.Context) (api.Dashboard, error) {
	return querycache.Lookup(ctx, c.cache, keyDashboard, func(ctx context.Context) (api.Dashboard, error) {
		record, err := c.api.GetPatient(ctx)
		if err != nil {
			return api.Dashboard{}, err
		}
		return record.Dashboard, nil
	}, c.staleAfter)
}
