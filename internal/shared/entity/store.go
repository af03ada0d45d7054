// Package entity provides an immutable, keyed and ordered record collection.
//
// A Store never changes after it is built. Every mutating operation on an
// Adapter returns a new Store carrying a fresh revision, so callers can detect
// change by comparing revisions instead of walking records.
package entity

import (
	"slices"
	"sort"
	"sync/atomic"
)

var revisions atomic.Uint64

func nextRevision() uint64 {
	return revisions.Add(1)
}

// Store holds records keyed by K plus an explicit id ordering.
// The zero value is a valid empty store.
type Store[K comparable, T any] struct {
	ids      []K
	entities map[K]T
	revision uint64
}

// SelectAll returns the records in store order. The result is a fresh slice.
func (s Store[K, T]) SelectAll() []T {
	out := make([]T, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.entities[id])
	}
	return out
}

// SelectIDs returns the ids in store order.
func (s Store[K, T]) SelectIDs() []K {
	return slices.Clone(s.ids)
}

// SelectByID looks a record up by id.
func (s Store[K, T]) SelectByID(id K) (T, bool) {
	record, ok := s.entities[id]
	return record, ok
}

// Has reports whether id is present.
func (s Store[K, T]) Has(id K) bool {
	_, ok := s.entities[id]
	return ok
}

// SelectTotal returns the number of distinct ids.
func (s Store[K, T]) SelectTotal() int {
	return len(s.ids)
}

// Revision identifies this store value. Two stores with the same revision hold the same records.
func (s Store[K, T]) Revision() uint64 {
	return s.revision
}

// Adapter knows how to key and order records of type T.
type Adapter[K comparable, T any] struct {
	selectID     func(T) K
	sortComparer func(a, b T) int
}

// AdapterOption configures an Adapter.
type AdapterOption[K comparable, T any] func(*Adapter[K, T])

// WithSortComparer keeps the store ordered by cmp (negative when a sorts before b).
func WithSortComparer[K comparable, T any](cmp func(a, b T) int) AdapterOption[K, T] {
	return func(a *Adapter[K, T]) {
		a.sortComparer = cmp
	}
}

// NewAdapter builds an adapter around the id selector.
func NewAdapter[K comparable, T any](selectID func(T) K, opts ...AdapterOption[K, T]) Adapter[K, T] {
	a := Adapter[K, T]{selectID: selectID}
	for _, opt := range opts {
		if opt != nil {
			opt(&a)
		}
	}
	return a
}

// SetAll replaces the whole store. Duplicate ids keep the last record; the
// ordering is recomputed with the comparator, or follows first appearance.
func (a Adapter[K, T]) SetAll(records []T) Store[K, T] {
	entities := make(map[K]T, len(records))
	ids := make([]K, 0, len(records))
	for _, record := range records {
		id := a.selectID(record)
		if _, seen := entities[id]; !seen {
			ids = append(ids, id)
		}
		entities[id] = record
	}
	if a.sortComparer != nil {
		sort.SliceStable(ids, func(i, j int) bool {
			return a.sortComparer(entities[ids[i]], entities[ids[j]]) < 0
		})
	}
	return Store[K, T]{ids: ids, entities: entities, revision: nextRevision()}
}

// AddOne inserts record, overwriting an existing record with the same id.
// Without a comparator an existing id keeps its slot and a new id is appended.
func (a Adapter[K, T]) AddOne(s Store[K, T], record T) Store[K, T] {
	id := a.selectID(record)
	entities := cloneEntities(s.entities, 1)
	_, exists := entities[id]
	entities[id] = record

	var ids []K
	switch {
	case a.sortComparer != nil:
		ids = make([]K, 0, len(s.ids)+1)
		for _, existing := range s.ids {
			if existing != id {
				ids = append(ids, existing)
			}
		}
		pos := sort.Search(len(ids), func(i int) bool {
			return a.sortComparer(record, entities[ids[i]]) < 0
		})
		ids = slices.Insert(ids, pos, id)
	case exists:
		ids = slices.Clone(s.ids)
	default:
		ids = append(slices.Clone(s.ids), id)
	}
	return Store[K, T]{ids: ids, entities: entities, revision: nextRevision()}
}

// UpdateOne applies change to the record under id. It reports false and
// returns s untouched when id is absent.
func (a Adapter[K, T]) UpdateOne(s Store[K, T], id K, change func(T) T) (Store[K, T], bool) {
	current, ok := s.entities[id]
	if !ok {
		return s, false
	}
	updated := change(current)
	if a.selectID(updated) != id {
		// A changed identity is an insert of a new record under the new id.
		return a.AddOne(a.RemoveOne(s, id), updated), true
	}
	if a.sortComparer != nil {
		return a.AddOne(s, updated), true
	}
	entities := cloneEntities(s.entities, 0)
	entities[id] = updated
	return Store[K, T]{ids: slices.Clone(s.ids), entities: entities, revision: nextRevision()}, true
}

// RemoveOne deletes id. Removing an absent id returns s unchanged.
func (a Adapter[K, T]) RemoveOne(s Store[K, T], id K) Store[K, T] {
	if _, ok := s.entities[id]; !ok {
		return s
	}
	entities := cloneEntities(s.entities, 0)
	delete(entities, id)
	ids := make([]K, 0, len(s.ids)-1)
	for _, existing := range s.ids {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	return Store[K, T]{ids: ids, entities: entities, revision: nextRevision()}
}

// RemoveAll empties the store. An already empty store is returned unchanged.
func (a Adapter[K, T]) RemoveAll(s Store[K, T]) Store[K, T] {
	if len(s.ids) == 0 && s.revision != 0 {
		return s
	}
	return Store[K, T]{entities: map[K]T{}, revision: nextRevision()}
}

func cloneEntities[K comparable, T any](src map[K]T, extra int) map[K]T {
	dst := make(map[K]T, len(src)+extra)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
