package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersByAscendingID(t *testing.T) {
	cache := Load([]Item{{ID: 9}, {ID: 2}, {ID: 5}, {ID: 2, Name: "dup"}})

	items := cache.SelectAll()
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		require.Less(t, items[i-1].ID, items[i].ID)
	}
	require.Equal(t, "dup", items[0].Name)
}

func TestFilter_CaseInsensitiveOnCategoryAndName(t *testing.T) {
	items := []Item{{ID: 1, Category: "Tee", Name: "Red"}, {ID: 2, Category: "Hoodie", Name: "Blue"}}

	got := Filter(items, "red")
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)

	require.Len(t, Filter(items, ""), 2)
	require.Len(t, Filter(items, "  "), 2)
	require.Len(t, Filter(items, "TEE RED"), 1)
	require.Empty(t, Filter(items, "green"))
}

func TestPaginate(t *testing.T) {
	items := make([]Item, 25)
	for i := range items {
		items[i] = Item{ID: int64(i + 1), Name: fmt.Sprintf("item-%d", i+1)}
	}

	page := Paginate(items, 10)
	require.Len(t, page.Items, 10)
	require.Equal(t, 15, page.Remaining)

	page = Paginate(items, 20)
	require.Equal(t, 5, page.Remaining)

	page = Paginate(items, 30)
	require.Len(t, page.Items, 25)
	require.Zero(t, page.Remaining)
}

func TestCoverImage_ToleratesEmptyImages(t *testing.T) {
	require.Equal(t, "", Item{}.CoverImage())
	require.Equal(t, "a.png", Item{Images: []string{"a.png", "b.png"}}.CoverImage())
}
