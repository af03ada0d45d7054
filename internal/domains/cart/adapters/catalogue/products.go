package catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	cataloguedomain "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	catalogueports "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
)

// Products resolves cart products from the catalogue cache.
type Products struct {
	catalogue catalogueports.Service
}

func NewProducts(catalogue catalogueports.Service) *Products {
	return &Products{catalogue: catalogue}
}

func (p *Products) Product(ctx context.Context, id int64) (domain.Product, error) {
	if p == nil || p.catalogue == nil {
		return domain.Product{}, errors.New("catalogue not configured")
	}
	item, err := p.catalogue.ItemByID(ctx, id)
	if errors.Is(err, catalogueports.ErrNotFound) {
		return domain.Product{}, fmt.Errorf("%w: %d", ports.ErrProductNotFound, id)
	}
	if err != nil {
		return domain.Product{}, err
	}
	return ToProduct(item), nil
}

// ToProduct copies the fields a cart line keeps.
func ToProduct(item cataloguedomain.Item) domain.Product {
	return domain.Product{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
		Currency: item.Currency,
		Image:    item.CoverImage(),
	}
}

var _ ports.Catalogue = (*Products)(nil)
