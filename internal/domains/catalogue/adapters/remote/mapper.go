package remote

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
)

// ItemPayload is one element of the items.json data array.
type ItemPayload struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Left        int             `json:"left"`
	Tags        struct {
		Fabric string `json:"fabric"`
	} `json:"tags"`
	Images []string `json:"images"`
}

// ToDomain maps a wire item onto the catalogue aggregate.
func ToDomain(p ItemPayload) domain.Item {
	currency := strings.TrimSpace(p.Currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return domain.Item{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Currency:    currency,
		Left:        p.Left,
		Tags:        domain.Tags{Fabric: p.Tags.Fabric},
		Images:      append([]string{}, p.Images...),
	}
}
