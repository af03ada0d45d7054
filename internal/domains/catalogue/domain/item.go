package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the only currency the storefront prices in.
const DefaultCurrency = "TON"

// Tags carries the descriptive material tags of an item.
type Tags struct {
	Fabric string
}

// Item is a catalogue product. Items are immutable once fetched.
type Item struct {
	ID          int64
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	Currency    string
	Left        int
	Tags        Tags
	Images      []string
}

// CoverImage returns the first image URL, or "" when the item has none.
func (i Item) CoverImage() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0]
}

// Title is the "category name" label used by the grid and by search.
func (i Item) Title() string {
	return strings.TrimSpace(i.Category + " " + i.Name)
}

// InStock reports whether any units are left.
func (i Item) InStock() bool {
	return i.Left > 0
}

// Matches reports whether the item's title contains query, ignoring case.
// A blank query matches everything.
func (i Item) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Category+" "+i.Name), query)
}
