// Package safemap adapts the teacher's xsync-backed concurrent map
// wrapper down to the two operations metrics.Counters actually needs:
// a compute-in-place increment and a full-table iteration for
// snapshotting. The other operations the teacher's stream-key cache
// used (Set, Get, GetOrSet, GetAndDel, GetOrCompute, Del, Len, Clear)
// have no caller in this domain and were dropped rather than kept as
// unreachable API surface.
package safemap

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Map is a thread-safe label -> value table.
type Map[K comparable, V any] struct {
	internal *xsync.MapOf[K, V]
}

// New creates a new Map instance.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		internal: xsync.NewMapOf[K, V](),
	}
}

// Compute atomically updates the value for key: valueFn receives the
// current value (and whether it was present) and returns the value to
// store, or del=true to remove the key instead.
func (sm *Map[K, V]) Compute(key K, valueFn func(oldValue V, loaded bool) (newValue V, del bool)) (actual V, loaded bool) {
	return sm.internal.Compute(key, valueFn)
}

// ForEach iterates over all key-value pairs in the map and applies the
// given function. The iteration stops if the function returns false.
func (sm *Map[K, V]) ForEach(fn func(K, V) bool) {
	sm.internal.Range(fn)
}
