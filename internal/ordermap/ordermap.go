// Package ordermap provides a generic, comparator-ordered key/value
// container on top of a balanced B-tree. It exists so the filestate and
// registry packages never have to know how entries are kept in order —
// any balanced structure would do, and this one is a real dependency
// rather than a hand-rolled one.
package ordermap

import "github.com/google/btree"

// Map is a balanced, comparator-ordered key/value store. The zero value
// is not usable; construct one with [New].
type Map[K any, V any] struct {
	less func(a, b K) bool
	tree *btree.BTreeG[entry[K, V]]
}

type entry[K any, V any] struct {
	key   K
	value V
}

// degree chosen the way most btree.NewG callers in the wild do for
// small, in-memory indexes: no tuning knob exposed, no need for one.
const degree = 32

// New returns an empty Map ordered by less, a strict "a before b"
// total order over K.
func New[K any, V any](less func(a, b K) bool) *Map[K, V] {
	entryLess := func(a, b entry[K, V]) bool { return less(a.key, b.key) }
	return &Map[K, V]{
		less: less,
		tree: btree.NewG(degree, entryLess),
	}
}

// Insert stores value under key, unless key is already present — the
// container only ever needs insert-if-absent semantics. Reports
// whether the insert happened.
func (m *Map[K, V]) Insert(key K, value V) bool {
	if _, found := m.tree.Get(entry[K, V]{key: key}); found {
		return false
	}
	m.tree.ReplaceOrInsert(entry[K, V]{key: key, value: value})
	return true
}

// Find returns the value stored under key, if any.
func (m *Map[K, V]) Find(key K) (V, bool) {
	e, found := m.tree.Get(entry[K, V]{key: key})
	return e.value, found
}

// Delete removes key from the map. Reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	_, found := m.tree.Delete(entry[K, V]{key: key})
	return found
}

// Len reports the number of entries currently stored.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Destroy visits every remaining entry, in key order, passing it to
// visit, then empties the map. Safe to call on an already-empty map.
func (m *Map[K, V]) Destroy(visit func(key K, value V)) {
	m.tree.Ascend(func(e entry[K, V]) bool {
		visit(e.key, e.value)
		return true
	})
	m.tree.Clear(false)
}
