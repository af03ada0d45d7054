// Package storefront adapts the catalogue, cart and history services to the
// narrow ports checkout depends on.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	catalogueports "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	historydomain "github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	historyports "github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
)

var (
	_ ports.Products = (*Products)(nil)
	_ ports.Cart     = (*Cart)(nil)
	_ ports.History  = (*History)(nil)
)

// Products resolves order lines from the catalogue cache.
type Products struct {
	catalogue catalogueports.Service
}

func NewProducts(catalogue catalogueports.Service) *Products {
	return &Products{catalogue: catalogue}
}

func (p *Products) Line(ctx context.Context, productID int64, qty int) (domain.OrderLine, error) {
	item, err := p.catalogue.ItemByID(ctx, productID)
	if errors.Is(err, catalogueports.ErrNotFound) {
		return domain.OrderLine{}, fmt.Errorf("%w: %d", ports.ErrProductNotFound, productID)
	}
	if err != nil {
		return domain.OrderLine{}, err
	}
	return domain.OrderLine{
		ProductID: item.ID,
		Name:      item.Name,
		Category:  item.Category,
		Price:     item.Price,
		Currency:  item.Currency,
		Qty:       qty,
	}, nil
}

// Cart exposes an owner's cart lines as order lines.
type Cart struct {
	cart cartports.Service
}

func NewCart(cart cartports.Service) *Cart {
	return &Cart{cart: cart}
}

func (c *Cart) Lines(ctx context.Context, owner string) ([]domain.OrderLine, error) {
	view, err := c.cart.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Category:  l.Category,
			Price:     l.Price,
			Currency:  l.Currency,
			Qty:       l.Qty,
		})
	}
	return lines, nil
}

func (c *Cart) Clear(ctx context.Context, owner string) error {
	_, err := c.cart.Clear(ctx, owner)
	return err
}

// History appends one purchase per paid line.
type History struct {
	history historyports.Service
}

func NewHistory(history historyports.Service) *History {
	return &History{history: history}
}

func (h *History) Record(ctx context.Context, owner string, at time.Time, lines []domain.OrderLine) (bool, error) {
	recorded := len(lines) > 0
	for _, l := range lines {
		purchase, err := historydomain.NewPurchase(at, l.ProductID, l.Subtotal(), l.Currency)
		if err != nil {
			return false, err
		}
		ok, err := h.history.AddPurchase(ctx, owner, purchase)
		if err != nil {
			return false, err
		}
		recorded = recorded && ok
	}
	return recorded, nil
}
