package mapper

import (
	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
)

// Line is the HTTP representation of a cart line.
type Line struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Image    string `json:"image"`
	Qty      int    `json:"qty"`
	Subtotal string `json:"subtotal"`
}

// Cart is the HTTP representation of an owner's cart.
type Cart struct {
	Lines    []Line `json:"lines"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
	Distinct int    `json:"distinct"`
	Currency string `json:"currency,omitempty"`
}

// AddItem is the payload of POST /v1/cart/items.
type AddItem struct {
	ID int64 `json:"id" binding:"required"`
}

// ChangeQty is the payload of PATCH /v1/cart/items/:itemId.
type ChangeQty struct {
	Delta int `json:"delta" binding:"required"`
}

func FromView(view ports.View) Cart {
	lines := make([]Line, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, Line{
			ID:       l.ProductID,
			Name:     l.Name,
			Category: l.Category,
			Price:    l.Price.String(),
			Currency: l.Currency,
			Image:    l.Image,
			Qty:      l.Qty,
			Subtotal: l.Subtotal().String(),
		})
	}
	return Cart{
		Lines:    lines,
		Total:    view.Total.String(),
		Count:    view.Count,
		Distinct: view.Distinct,
		Currency: view.Currency,
	}
}
