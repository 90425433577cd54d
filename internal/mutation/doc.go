// Package mutation coordinates writes to the aggregate patient record.
//
// Every update follows the same pipeline: validate the patch client-side,
// fetch the latest record, merge the patch under a resource-specific rule,
// write the whole record back, and on success publish a resource-changed
// event so dependent cache keys go stale. Cache state is never patched
// speculatively: displayed data only changes by refetching persisted truth.
//
// The record carries no revision token, so fetch-merge-write is
// last-write-wins: two concurrent writers race and the later write-back
// silently replaces the earlier one. That is a documented property of the
// backend's coarse resource, not something this package papers over.
package mutation
