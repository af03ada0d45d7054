package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

var ErrNotFound = errors.New("item not found")

// Source fetches the whole catalogue from the remote endpoint.
type Source interface {
	FetchItems(ctx context.Context) ([]domain.Item, error)
}

// Service exposes catalogue reads to adapters.
type Service interface {
	// Load fetches the catalogue once per process; later calls serve the cache.
	Load(ctx context.Context) (query.Result[domain.Cache], error)
	// Refetch replaces the cache with a fresh fetch.
	Refetch(ctx context.Context) (query.Result[domain.Cache], error)
	State() query.Result[domain.Cache]
	Search(ctx context.Context, q string) ([]domain.Item, error)
	Page(ctx context.Context, q string, visible int) (domain.Page, error)
	ItemByID(ctx context.Context, id int64) (domain.Item, error)
	// Lookup resolves an id against the cached catalogue without fetching.
	Lookup(id int64) (domain.Item, bool)
}
