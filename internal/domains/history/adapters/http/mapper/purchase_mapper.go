package mapper

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
)

// Purchase is the HTTP representation of a history row.
type Purchase struct {
	Timestamp   int64     `json:"timestamp"`
	PurchasedAt time.Time `json:"purchasedAt"`
	ProductID   int64     `json:"id"`
	Total       string    `json:"total"`
	Currency    string    `json:"currency"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
}

// History is an owner's revealed history page plus query status.
type History struct {
	Status    string     `json:"status"`
	Endpoint  string     `json:"endpoint"`
	FellBack  bool       `json:"fellBack"`
	Error     string     `json:"error,omitempty"`
	Items     []Purchase `json:"items"`
	Total     int        `json:"total"`
	Visible   int        `json:"visible"`
	Remaining int        `json:"remaining"`
}

// FromView reveals visible rows of view, joining catalogue fields through resolve.
func FromView(view ports.View, visible int, resolve domain.Resolver) History {
	cache := view.Result.Data
	rows := domain.Rows(domain.VisibleItems(cache, visible), resolve)
	items := make([]Purchase, 0, len(rows))
	for _, row := range rows {
		items = append(items, Purchase{
			Timestamp:   row.Timestamp,
			PurchasedAt: row.Time(),
			ProductID:   row.ProductID,
			Total:       row.Total.String(),
			Currency:    row.Currency,
			Name:        row.Product.Name,
			Category:    row.Product.Category,
			Image:       row.Product.Image,
		})
	}
	resp := History{
		Status:    string(view.Result.Status),
		Endpoint:  string(view.Endpoint),
		FellBack:  view.FellBack(),
		Items:     items,
		Total:     cache.SelectTotal(),
		Visible:   len(items),
		Remaining: domain.RemainingCount(cache, visible),
	}
	if view.Result.Err != nil {
		resp.Error = view.Result.Err.Error()
	}
	return resp
}
