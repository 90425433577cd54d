// Package querycache provides a keyed, time-stale cache over asynchronous
// fetches with in-flight de-duplication.
//
// Each cached value is named by an ordered Key. A Get within the staleness
// window returns the cached value without touching the network; otherwise
// callers share a single in-flight fetch per key. A failed fetch is retried
// exactly once before the error is surfaced. Mutations never patch entries
// directly: they publish a resource change (ResourceChanged) and the cache
// marks every bound key stale, so the next read refetches persisted truth.
package querycache
