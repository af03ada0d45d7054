package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/observability"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/adapters/observability/service"

// Service decorates the catalogue port with tracing, logging, and metrics.
type Service struct {
	observability.Decorator
	inner     ports.Service
	refetches metric.Int64Counter
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...observability.Option) ports.Service {
	d := observability.NewDecorator(tracerName, opts...)
	return &Service{
		Decorator: d,
		inner:     inner,
		refetches: d.Counter(observability.CounterCatalogueRefetches, "Number of catalogue fetches by outcome"),
	}
}

func (s *Service) Load(ctx context.Context) (query.Result[domain.Cache], error) {
	ctx, span := s.StartSpan(ctx, "Service.Load")
	defer span.End()

	result, err := s.inner.Load(ctx)
	if err != nil {
		return result, s.HandleError(ctx, span, err, "failed to load catalogue")
	}
	span.SetAttributes(attribute.Int("catalogue.items", result.Data.SelectTotal()))
	return result, nil
}

// Refetch always hits the remote source, so it is the one counted.
func (s *Service) Refetch(ctx context.Context) (query.Result[domain.Cache], error) {
	ctx, span := s.StartSpan(ctx, "Service.Refetch")
	defer span.End()

	s.LogInfo(ctx, "refetching catalogue")
	result, err := s.inner.Refetch(ctx)
	if err != nil {
		observability.Add(ctx, s.refetches, 1, attribute.String("outcome", "error"))
		return result, s.HandleError(ctx, span, err, "failed to refetch catalogue")
	}
	observability.Add(ctx, s.refetches, 1, attribute.String("outcome", "success"))
	s.LogInfo(ctx, "catalogue refetched", slog.Int("count", result.Data.SelectTotal()))
	return result, nil
}

func (s *Service) State() query.Result[domain.Cache] {
	return s.inner.State()
}

func (s *Service) Search(ctx context.Context, q string) ([]domain.Item, error) {
	ctx, span := s.StartSpan(ctx, "Service.Search", attribute.String("catalogue.query", q))
	defer span.End()

	items, err := s.inner.Search(ctx, q)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to search catalogue", slog.String("query", q))
	}
	span.SetAttributes(attribute.Int("catalogue.result.count", len(items)))
	return items, nil
}

func (s *Service) Page(ctx context.Context, q string, visible int) (domain.Page, error) {
	ctx, span := s.StartSpan(ctx, "Service.Page",
		attribute.String("catalogue.query", q),
		attribute.Int("catalogue.visible", visible),
	)
	defer span.End()

	page, err := s.inner.Page(ctx, q, visible)
	if err != nil {
		return page, s.HandleError(ctx, span, err, "failed to page catalogue", slog.String("query", q))
	}
	span.SetAttributes(attribute.Int("catalogue.remaining", page.Remaining))
	return page, nil
}

func (s *Service) ItemByID(ctx context.Context, id int64) (domain.Item, error) {
	ctx, span := s.StartSpan(ctx, "Service.ItemByID", attribute.Int64("item.id", id))
	defer span.End()

	item, err := s.inner.ItemByID(ctx, id)
	if err != nil {
		return item, s.HandleError(ctx, span, err, "failed to load item", slog.Int64("item.id", id))
	}
	return item, nil
}

func (s *Service) Lookup(id int64) (domain.Item, bool) {
	return s.inner.Lookup(id)
}

var _ ports.Service = (*Service)(nil)
