package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

// ErrHistoryUnavailable is returned once both the normal and the empty endpoint failed.
var ErrHistoryUnavailable = errors.New("purchase history unavailable")

// Endpoint names the history query currently backing an owner's view.
type Endpoint string

const (
	EndpointNormal Endpoint = "history.json"
	EndpointEmpty  Endpoint = "no_history.json"
)

// Source fetches purchase history from the two remote endpoints.
type Source interface {
	FetchHistory(ctx context.Context) ([]domain.Purchase, error)
	FetchEmptyHistory(ctx context.Context) ([]domain.Purchase, error)
}

// View is an owner's history query as currently selected.
type View struct {
	Endpoint Endpoint
	Result   query.Result[domain.Cache]
}

// FellBack reports whether the view is served by the empty endpoint.
func (v View) FellBack() bool {
	return v.Endpoint == EndpointEmpty
}

// Service exposes the history cache to adapters.
type Service interface {
	Load(ctx context.Context, owner string) (View, error)
	Retry(ctx context.Context, owner string) (View, error)
	State(owner string) View
	AddPurchase(ctx context.Context, owner string, purchase domain.Purchase) (bool, error)
}
