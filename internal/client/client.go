// ABOUTME: Client facade wiring session, guards, cache, and mutations together
// ABOUTME: Owns the query keys and resource bindings for the aggregate record

package client

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/guard"
	"github.com/openhealth/carebridge/internal/mutation"
	"github.com/openhealth/carebridge/internal/querycache"
	"github.com/openhealth/carebridge/internal/session"
)

// Query keys for the cached resources
var (
	keyGoals            = querycache.NewKey("goals")
	keyDashboard        = querycache.NewKey("dashboard")
	keyProfile          = querycache.NewKey("profile")
	keyProviderPatients = querycache.NewKey("provider", "patients")
)

// patientDetailsKey names the per-patient detail resource.
func patientDetailsKey(id int64) querycache.Key {
	return querycache.NewKey("patient", "details", strconv.FormatInt(id, 10))
}

// Client is the application-facing facade over the carebridge subsystems.
type Client struct {
	api        *api.Client
	sessions   *session.Store
	cache      *querycache.Cache
	mutations  *mutation.Coordinator
	issuer     *session.TokenIssuer
	staleAfter time.Duration
	logger     *slog.Logger
}

// New wires up a client. staleAfter is the cache staleness window applied to
// every read.
func New(apiClient *api.Client, sessions *session.Store, issuer *session.TokenIssuer, staleAfter time.Duration) *Client {
	cache := querycache.New()

	// Every read below is derived from the aggregate patient record, so a
	// successful mutation invalidates all of them at once. Patient detail
	// keys are bound lazily as provider views touch them.
	cache.Bind(mutation.ResourcePatient, keyGoals, keyDashboard, keyProfile)

	return &Client{
		api:        apiClient,
		sessions:   sessions,
		cache:      cache,
		mutations:  mutation.NewCoordinator(apiClient, cache),
		issuer:     issuer,
		staleAfter: staleAfter,
		logger:     slog.Default().With("component", "client"),
	}
}

// Session returns the current session snapshot.
func (c *Client) Session() session.Session {
	return c.sessions.Current()
}

// Restore loads any persisted session. Called once at process start.
func (c *Client) Restore() session.Session {
	return c.sessions.Restore()
}

// Authorize evaluates the guard chain for a role-gated surface. A denial is a
// redirect decision, not an error.
func (c *Client) Authorize(required session.Role) guard.Decision {
	return guard.Chain(c.sessions.Current(), required)
}

// MutationInFlight reports whether a write is pending.
func (c *Client) MutationInFlight() bool {
	return c.mutations.InFlight()
}
