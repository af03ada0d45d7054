package entity

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64
	Name string
}

func recordID(r record) int64 { return r.ID }

func ascending() Adapter[int64, record] {
	return NewAdapter(recordID, WithSortComparer[int64](func(a, b record) int { return cmp.Compare(a.ID, b.ID) }))
}

func TestSetAll_SortsAndDeduplicates(t *testing.T) {
	a := ascending()
	s := a.SetAll([]record{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 3, Name: "c2"}, {ID: 2, Name: "b"}})

	require.Equal(t, 3, s.SelectTotal())
	require.Equal(t, []int64{1, 2, 3}, s.SelectIDs())
	got, ok := s.SelectByID(3)
	require.True(t, ok)
	assert.Equal(t, "c2", got.Name, "last write wins for duplicate ids")
}

func TestSetAll_WithoutComparerKeepsFirstAppearance(t *testing.T) {
	a := NewAdapter(recordID)
	s := a.SetAll([]record{{ID: 5}, {ID: 2}, {ID: 5, Name: "again"}, {ID: 9}})

	require.Equal(t, []int64{5, 2, 9}, s.SelectIDs())
}

func TestAddOne_NeverDuplicatesIDs(t *testing.T) {
	a := NewAdapter(recordID)
	var s Store[int64, record]
	for _, id := range []int64{1, 2, 1, 3, 2, 1} {
		s = a.AddOne(s, record{ID: id})
	}
	require.Equal(t, []int64{1, 2, 3}, s.SelectIDs())
	require.Len(t, s.SelectAll(), 3)
}

func TestAddOne_OverwritesInPlace(t *testing.T) {
	a := NewAdapter(recordID)
	s := a.SetAll([]record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	s = a.AddOne(s, record{ID: 1, Name: "z"})

	require.Equal(t, []int64{1, 2}, s.SelectIDs())
	got, _ := s.SelectByID(1)
	assert.Equal(t, "z", got.Name)
}

func TestAddOne_ComparerDeterminesPosition(t *testing.T) {
	a := ascending()
	s := a.SetAll([]record{{ID: 1}, {ID: 5}, {ID: 9}})
	s = a.AddOne(s, record{ID: 6})
	s = a.AddOne(s, record{ID: 0})

	require.Equal(t, []int64{0, 1, 5, 6, 9}, s.SelectIDs())
}

func TestOperationsDoNotMutatePreviousStore(t *testing.T) {
	a := NewAdapter(recordID)
	before := a.SetAll([]record{{ID: 1, Name: "a"}})
	after := a.AddOne(before, record{ID: 2})
	after = a.RemoveOne(after, 1)

	require.Equal(t, []int64{1}, before.SelectIDs())
	require.Equal(t, []int64{2}, after.SelectIDs())
	require.NotEqual(t, before.Revision(), after.Revision())
}

func TestRemoveOne_AbsentIsNoop(t *testing.T) {
	a := NewAdapter(recordID)
	s := a.SetAll([]record{{ID: 1}})
	same := a.RemoveOne(s, 42)

	require.Equal(t, s.Revision(), same.Revision())
	require.Equal(t, 1, same.SelectTotal())
}

func TestRemoveAll(t *testing.T) {
	a := ascending()
	s := a.SetAll([]record{{ID: 1}, {ID: 2}})
	empty := a.RemoveAll(s)

	require.Zero(t, empty.SelectTotal())
	require.Empty(t, empty.SelectAll())
	require.Equal(t, empty.Revision(), a.RemoveAll(empty).Revision())
}

func TestUpdateOne(t *testing.T) {
	a := NewAdapter(recordID)
	s := a.SetAll([]record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})

	updated, ok := a.UpdateOne(s, 1, func(r record) record { r.Name = "x"; return r })
	require.True(t, ok)
	require.Equal(t, []int64{1, 2}, updated.SelectIDs())
	got, _ := updated.SelectByID(1)
	require.Equal(t, "x", got.Name)

	missing, ok := a.UpdateOne(s, 7, func(r record) record { return r })
	require.False(t, ok)
	require.Equal(t, s.Revision(), missing.Revision())
}

func TestZeroStoreSelectors(t *testing.T) {
	var s Store[int64, record]
	require.Empty(t, s.SelectAll())
	require.Zero(t, s.SelectTotal())
	_, ok := s.SelectByID(1)
	require.False(t, ok)
}

func TestSnapshotRoundTripRepairsInvariants(t *testing.T) {
	a := NewAdapter(recordID)
	snap := Snapshot[int64, record]{
		IDs:      []int64{2, 2, 7, 1},
		Entities: map[int64]record{1: {ID: 1}, 2: {ID: 2}, 3: {ID: 3}},
	}
	s := a.FromSnapshot(snap)

	ids := s.SelectIDs()
	require.Equal(t, []int64{2, 1, 3}, ids, "dangling 7 dropped, duplicate 2 dropped, orphan 3 appended")

	again := a.FromSnapshot(s.Snapshot())
	require.Equal(t, ids, again.SelectIDs())
}
