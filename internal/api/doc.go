// Package api is the HTTP client for the carebridge backend.
//
// The backend exposes a coarse REST surface: one aggregate record per patient
// (GET/PUT /patient), a provider roster (GET /provider), and a users
// collection for login and registration (GET/POST /users). Bodies are JSON.
// The client attaches the session's bearer token and a per-request
// X-Request-Id; it performs no caching or retries itself — staleness and
// retry policy live in querycache and mutation.
package api
