// Package kvstore provides durable string key/value persistence for
// client-side state that must survive process restarts.
package kvstore
