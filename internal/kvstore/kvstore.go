// ABOUTME: KeyValueStore interface for durable string key/value persistence
// ABOUTME: Backed by SQLite in production and an in-memory map in tests

package kvstore

import "errors"

// ErrNotFound is returned when a requested key does not exist
var ErrNotFound = errors.New("key not found")

// KeyValueStore defines durable string key/value persistence.
// Values survive process restarts; keys are unique.
type KeyValueStore interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases any resources held by the store
	Close() error
}
