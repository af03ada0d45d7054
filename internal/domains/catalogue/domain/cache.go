package domain

import (
	"cmp"

	"github.com/Apurer/go-gin-storefront/internal/shared/entity"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"
)

// Cache is the normalized catalogue: items keyed by id, ascending.
type Cache = entity.Store[int64, Item]

var adapter = entity.NewAdapter(
	func(i Item) int64 { return i.ID },
	entity.WithSortComparer[int64](func(a, b Item) int { return cmp.Compare(a.ID, b.ID) }),
)

// Load replaces the catalogue with items, ordered by ascending id regardless of input order.
func Load(items []Item) Cache {
	return adapter.SetAll(items)
}

// Filter returns the items matching query, keeping catalogue order.
func Filter(items []Item, query string) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Matches(query) {
			out = append(out, item)
		}
	}
	return out
}

// Page is the revealed slice of a filtered catalogue.
type Page struct {
	Items     []Item
	Total     int
	Visible   int
	Remaining int
}

// Paginate reveals the first visible items.
func Paginate(items []Item, visible int) Page {
	shown := reveal.Slice(items, visible)
	return Page{
		Items:     shown,
		Total:     len(items),
		Visible:   len(shown),
		Remaining: reveal.Remaining(len(items), visible),
	}
}
