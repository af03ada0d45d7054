package remote

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
)

// PurchasePayload is one element of the history data array.
type PurchasePayload struct {
	Timestamp int64           `json:"timestamp"`
	ID        int64           `json:"id"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

func toDomain(p PurchasePayload) domain.Purchase {
	return domain.Purchase{
		Timestamp: p.Timestamp,
		ProductID: p.ID,
		Total:     p.Total,
		Currency:  p.Currency,
	}
}

// Source reads purchase history from the static JSON endpoints.
type Source struct {
	client *envelope.Client
}

func NewSource(client *envelope.Client) *Source {
	return &Source{client: client}
}

func (s *Source) FetchHistory(ctx context.Context) ([]domain.Purchase, error) {
	return s.fetch(ctx, ports.EndpointNormal)
}

// FetchEmptyHistory reads the fixture that always decodes to no purchases.
func (s *Source) FetchEmptyHistory(ctx context.Context) ([]domain.Purchase, error) {
	return s.fetch(ctx, ports.EndpointEmpty)
}

func (s *Source) fetch(ctx context.Context, endpoint ports.Endpoint) ([]domain.Purchase, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("history source not configured")
	}
	payload, err := envelope.Get[[]PurchasePayload](ctx, s.client, string(endpoint))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Purchase, 0, len(payload))
	for _, p := range payload {
		out = append(out, toDomain(p))
	}
	return out, nil
}

var _ ports.Source = (*Source)(nil)
