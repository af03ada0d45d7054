package domain

import (
	"cmp"

	"github.com/Apurer/go-gin-storefront/internal/shared/entity"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"
)

// Cache is the normalized purchase history, newest first.
type Cache = entity.Store[Key, Purchase]

var adapter = entity.NewAdapter(
	Purchase.Key,
	entity.WithSortComparer[Key](newestFirst),
)

// Equal timestamps fall back to product id so the order stays deterministic.
func newestFirst(a, b Purchase) int {
	if c := cmp.Compare(b.Timestamp, a.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.ProductID, b.ProductID)
}

// Load replaces the history, ordered by descending timestamp.
func Load(purchases []Purchase) Cache {
	return adapter.SetAll(purchases)
}

// Insert applies a local purchase to a cached history at its sorted position.
func Insert(c Cache, p Purchase) Cache {
	return adapter.AddOne(c, p)
}

// VisibleItems returns the first visible purchases.
func VisibleItems(c Cache, visible int) []Purchase {
	return reveal.Slice(c.SelectAll(), visible)
}

// RemainingCount is max(0, total-visible).
func RemainingCount(c Cache, visible int) int {
	return reveal.Remaining(c.SelectTotal(), visible)
}
