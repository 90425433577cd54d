// ABOUTME: Query keys naming cached, fetchable resources
// ABOUTME: Ordered string tuples such as ["goals"] or ["patient","details","7"]

package querycache

import (
	"strconv"
	"strings"
)

// Key is an ordered identifier naming a cached resource.
type Key []string

// NewKey builds a key from its parts.
func NewKey(parts ...string) Key {
	return Key(parts)
}

// String joins the key parts into the cache's internal map key. Parts are
// quoted so a separator inside a part cannot collide with the part boundary:
// ["a/b"] and ["a","b"] stay distinct keys.
func (k Key) String() string {
	quoted := make([]string, len(k))
	for i, part := range k {
		quoted[i] = strconv.Quote(part)
	}
	return strings.Join(quoted, "/")
}
