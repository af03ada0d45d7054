package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

// ErrProductNotFound is returned when an added product is not in the catalogue.
var ErrProductNotFound = errors.New("product not found")

// ErrCartUnavailable is returned while the owner's stored cart cannot be read.
var ErrCartUnavailable = errors.New("stored cart unavailable")

// Catalogue resolves a product to the fields a cart line copies.
type Catalogue interface {
	Product(ctx context.Context, id int64) (domain.Product, error)
}

// Persistence is the one-directional bridge to durable storage: a single
// load at first access, then dirty notifications.
type Persistence interface {
	Load(ctx context.Context, owner string) (domain.Snapshot, bool, error)
	MarkDirty(owner string)
}

// View is a cart with its derived totals.
type View struct {
	Lines    []domain.Line
	Total    decimal.Decimal
	Count    int
	Distinct int
	Currency string
}

// Service exposes cart use cases to adapters. Mutations for one owner apply in call order.
type Service interface {
	Get(ctx context.Context, owner string) (View, error)
	AddItem(ctx context.Context, owner string, productID int64) (View, error)
	ChangeQty(ctx context.Context, owner string, productID int64, delta int) (View, error)
	RemoveItem(ctx context.Context, owner string, productID int64) (View, error)
	Clear(ctx context.Context, owner string) (View, error)
	IsInCart(ctx context.Context, owner string, productID int64) bool
}
