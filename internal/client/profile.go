// ABOUTME: Profile read and write, including session user name propagation
// ABOUTME: Only the name flows back into the session-level user after an update

package client

import (
	"context"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/mutation"
	"github.com/openhealth/carebridge/internal/querycache"
	"github.com/openhealth/carebridge/internal/session"
)

// Profile returns the patient's profile block.
func (c *Client) Profile(ctx context.Context) (api.Profile, error) {
	return querycache.Lookup(ctx, c.cache, keyProfile, func(ctx context.Context) (api.Profile, error) {
		record, err := c.api.GetPatient(ctx)
		if err != nil {
			return api.Profile{}, err
		}
		return record.Profile, nil
	}, c.staleAfter)
}

// SetProfile updates the profile block through the mutation coordinator.
// On success the new name is mirrored into the session user; the other
// profile fields live only in the aggregate record.
func (c *Client) SetProfile(ctx context.Context, patch mutation.ProfilePatch) (mutation.Result, error) {
	result, err := c.mutations.UpdateProfile(ctx, patch)
	if err != nil {
		return result, err
	}

	if err := c.sessions.UpdateUser(session.UserPatch{Name: &patch.Name}); err != nil {
		c.logger.Warn("session user update not persisted", "error", err)
	}
	return result, nil
}
