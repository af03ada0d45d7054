package entity

// Snapshot is the serializable shape of a Store: the id ordering and the id→record map.
type Snapshot[K comparable, T any] struct {
	IDs      []K     `json:"ids"`
	Entities map[K]T `json:"entities"`
}

// Snapshot exports the store for durable write-back.
func (s Store[K, T]) Snapshot() Snapshot[K, T] {
	return Snapshot[K, T]{
		IDs:      s.SelectIDs(),
		Entities: cloneEntities(s.entities, 0),
	}
}

// FromSnapshot rebuilds a store from persisted state. Dangling or duplicate ids
// are dropped, records missing from the ordering are appended, and the store is
// re-sorted when the adapter has a comparator.
func (a Adapter[K, T]) FromSnapshot(snap Snapshot[K, T]) Store[K, T] {
	records := make([]T, 0, len(snap.Entities))
	seen := make(map[K]struct{}, len(snap.Entities))
	for _, id := range snap.IDs {
		record, ok := snap.Entities[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if a.selectID(record) != id {
			continue
		}
		seen[id] = struct{}{}
		records = append(records, record)
	}
	for id, record := range snap.Entities {
		if _, ok := seen[id]; ok {
			continue
		}
		if a.selectID(record) != id {
			continue
		}
		seen[id] = struct{}{}
		records = append(records, record)
	}
	return a.SetAll(records)
}
