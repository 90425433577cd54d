// ABOUTME: Provider reads: patient roster and per-patient detail records

package client

import (
	"context"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/mutation"
	"github.com/openhealth/carebridge/internal/querycache"
)

// ProviderPatients returns the provider's patient roster.
func (c *Client) ProviderPatients(ctx context.Context) ([]api.ProviderPatient, error) {
	return querycache.Lookup(ctx, c.cache, keyProviderPatients, func(ctx context.Context) ([]api.ProviderPatient, error) {
		overview, err := c.api.GetProvider(ctx)
		if err != nil {
			return nil, err
		}
		return overview.Patients, nil
	}, c.staleAfter)
}

// PatientDetails returns the full aggregate record for one patient, keyed
// per id. The backend currently serves the same /patient resource for every
// id; the per-id key means a real per-id endpoint can slot in without
// changing callers.
func (c *Client) PatientDetails(ctx context.Context, id int64) (*api.PatientRecord, error) {
	key := patientDetailsKey(id)
	c.cache.Bind(mutation.ResourcePatient, key)

	return querycache.Lookup(ctx, c.cache, key, func(ctx context.Context) (*api.PatientRecord, error) {
		return c.api.GetPatient(ctx)
	}, c.staleAfter)
}
