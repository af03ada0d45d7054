package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/shared/entity"
)

var (
	ErrInvalidDelta   = errors.New("quantity delta must be +1 or -1")
	ErrMissingProduct = errors.New("product id is required")
)

// Product is the catalogue data copied into a cart line when it is added.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    decimal.Decimal
	Currency string
	Image    string
}

// Line is one cart entry. Display fields are a snapshot taken at add time
// and do not follow later catalogue changes.
type Line struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Image     string          `json:"image"`
	Qty       int             `json:"qty"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

var adapter = entity.NewAdapter(func(l Line) int64 { return l.ProductID })

// Cart is an immutable set of lines in insertion order. The zero value is an empty cart.
type Cart struct {
	store entity.Store[int64, Line]
}

// Lines returns the lines in the order they were first added.
func (c Cart) Lines() []Line {
	return c.store.SelectAll()
}

func (c Cart) Line(id int64) (Line, bool) {
	return c.store.SelectByID(id)
}

func (c Cart) Has(id int64) bool {
	return c.store.Has(id)
}

// Distinct counts lines, not units.
func (c Cart) Distinct() int {
	return c.store.SelectTotal()
}

func (c Cart) IsEmpty() bool {
	return c.store.SelectTotal() == 0
}

// Revision changes on every mutation.
func (c Cart) Revision() uint64 {
	return c.store.Revision()
}

// AddItem adds one unit of p. A product already in the cart is incremented.
func (c Cart) AddItem(p Product) (Cart, error) {
	if p.ID == 0 {
		return c, ErrMissingProduct
	}
	if next, ok := adapter.UpdateOne(c.store, p.ID, increment(1)); ok {
		return Cart{store: next}, nil
	}
	return Cart{store: adapter.AddOne(c.store, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Currency:  p.Currency,
		Image:     p.Image,
		Qty:       1,
	})}, nil
}

// ChangeQty moves a line by delta. A line reaching zero is removed; a
// negative delta on an absent line is a no-op.
func (c Cart) ChangeQty(id int64, delta int) (Cart, error) {
	if delta != 1 && delta != -1 {
		return c, ErrInvalidDelta
	}
	line, ok := c.store.SelectByID(id)
	if !ok {
		return c, nil
	}
	if line.Qty+delta <= 0 {
		return Cart{store: adapter.RemoveOne(c.store, id)}, nil
	}
	next, _ := adapter.UpdateOne(c.store, id, increment(delta))
	return Cart{store: next}, nil
}

// RemoveItem drops the line regardless of quantity.
func (c Cart) RemoveItem(id int64) Cart {
	return Cart{store: adapter.RemoveOne(c.store, id)}
}

// Clear empties the cart.
func (c Cart) Clear() Cart {
	return Cart{store: adapter.RemoveAll(c.store)}
}

func increment(delta int) func(Line) Line {
	return func(l Line) Line {
		l.Qty += delta
		return l
	}
}

// Snapshot is the persisted form of a cart: ids plus id to line mapping.
type Snapshot = entity.Snapshot[int64, Line]

func (c Cart) Snapshot() Snapshot {
	return c.store.Snapshot()
}

// FromSnapshot restores a cart, dropping lines whose quantity is not positive.
func FromSnapshot(snap Snapshot) Cart {
	store := adapter.FromSnapshot(snap)
	for _, line := range store.SelectAll() {
		if line.Qty <= 0 {
			store = adapter.RemoveOne(store, line.ProductID)
		}
	}
	return Cart{store: store}
}
