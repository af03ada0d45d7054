package remote

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
)

const itemsPath = "items.json"

// Source reads the catalogue from the static JSON endpoint.
type Source struct {
	client *envelope.Client
}

func NewSource(client *envelope.Client) *Source {
	return &Source{client: client}
}

// FetchItems decodes items.json; API, network and contract errors pass through unchanged.
func (s *Source) FetchItems(ctx context.Context) ([]domain.Item, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("catalogue source not configured")
	}
	payload, err := envelope.Get[[]ItemPayload](ctx, s.client, itemsPath)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(payload))
	for _, p := range payload {
		items = append(items, ToDomain(p))
	}
	return items, nil
}

var _ ports.Source = (*Source)(nil)
