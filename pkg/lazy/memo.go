// Package lazy holds the building blocks for fetching tree levels on demand:
// write-once slots that live on the nodes themselves, a coalescing cache that
// fills those slots from a slow source, and the dispatcher used to hand
// results back to the goroutine that owns the UI state.
package lazy

import "sync/atomic"

// Memo is a write-once slot. The zero value is unfetched; after the first
// successful Store it is fetched (possibly with an empty value) forever.
// A Memo must not be copied after first use.
type Memo[T any] struct {
	v atomic.Pointer[T]
}

// Load returns the stored value and whether the slot was populated.
func (m *Memo[T]) Load() (T, bool) {
	if p := m.v.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Loaded reports whether the slot was populated.
func (m *Memo[T]) Loaded() bool {
	return m.v.Load() != nil
}

// Store populates the slot if it is still empty and returns the value that
// ended up stored. A later Store never replaces an earlier one.
func (m *Memo[T]) Store(v T) T {
	if m.v.CompareAndSwap(nil, &v) {
		return v
	}
	return *m.v.Load()
}
