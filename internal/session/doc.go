// Package session owns the client's in-memory authentication state.
//
// A Session records who is authenticated (token, role, user) and is the single
// source of truth for route guards and API calls. The Store synchronizes the
// session to a durable KeyValueStore so it survives restarts: token, role, and
// user are persisted as three independent entries and are only restored when
// all three are present and decode cleanly. A damaged or partial persisted
// session is recovered locally as "no session", never surfaced as an error.
//
// Continuity tokens are HS256 JWTs issued locally at login/registration time.
// They exist so the session has a stable opaque credential to persist and to
// attach to API requests; validity enforcement belongs to the backend.
package session
