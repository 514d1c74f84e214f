// Package index provides the ordered, comparison-instrumented binary
// search tree used by the record engine for its id and last-name indexes.
package index

import "cmp"

// Index is an ordered key→value mapping that reports the number of key
// comparisons it performs. Tree is the only implementation.
type Index[K cmp.Ordered, V any] interface {
	// Insert stores val under key, replacing any existing value.
	// Returns true if the key was new.
	Insert(key K, val V) bool
	// Find returns a mutable reference to the value stored under key.
	Find(key K) (*V, bool)
	// Erase removes key. Returns false if the key was not found.
	Erase(key K) bool
	// ResetMetrics zeroes the comparison counter.
	ResetMetrics()
	// Comparisons returns the comparisons performed since the last reset.
	Comparisons() int
	// Len returns the number of keys.
	Len() int
}

var (
	_ Index[int64, int]      = (*Tree[int64, int])(nil)
	_ Index[string, []int64] = (*Tree[string, []int64])(nil)
)
