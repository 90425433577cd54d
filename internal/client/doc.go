// Package client is the high-level carebridge client facade.
//
// It binds the subsystems together: the session store for who is logged in,
// the guards for role-gated access, the query cache for reads, and the
// mutation coordinator for writes. Each operation lives in its own file.
// Reads are keyed cache lookups over the aggregate patient record; writes go
// through the coordinator, which invalidates the dependent keys so the next
// read reflects persisted truth.
package client
