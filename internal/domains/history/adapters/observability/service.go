package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/history/adapters/observability/service"

// Service decorates the history port with tracing, logging, and metrics.
type Service struct {
	observability.Decorator
	inner     ports.Service
	fallbacks metric.Int64Counter
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...observability.Option) ports.Service {
	d := observability.NewDecorator(tracerName, opts...)
	return &Service{
		Decorator: d,
		inner:     inner,
		fallbacks: d.Counter(observability.CounterHistoryFallbacks, "Number of switches to the empty history endpoint"),
	}
}

// Load counts a fallback when the call moved the owner onto the empty endpoint.
func (s *Service) Load(ctx context.Context, owner string) (ports.View, error) {
	ctx, span := s.StartSpan(ctx, "Service.Load", attribute.String("owner", owner))
	defer span.End()

	before := s.inner.State(owner)
	view, err := s.inner.Load(ctx, owner)
	s.recordFallback(ctx, owner, before, view)
	if err != nil {
		return view, s.HandleError(ctx, span, err, "failed to load history", slog.String("owner", owner))
	}
	span.SetAttributes(
		attribute.String("history.endpoint", string(view.Endpoint)),
		attribute.Int("history.items", view.Result.Data.SelectTotal()),
	)
	return view, nil
}

func (s *Service) Retry(ctx context.Context, owner string) (ports.View, error) {
	ctx, span := s.StartSpan(ctx, "Service.Retry", attribute.String("owner", owner))
	defer span.End()

	s.LogInfo(ctx, "retrying history", slog.String("owner", owner))
	view, err := s.inner.Retry(ctx, owner)
	s.recordFallback(ctx, owner, ports.View{Endpoint: ports.EndpointNormal}, view)
	if err != nil {
		return view, s.HandleError(ctx, span, err, "history retry failed", slog.String("owner", owner))
	}
	return view, nil
}

func (s *Service) State(owner string) ports.View {
	return s.inner.State(owner)
}

func (s *Service) AddPurchase(ctx context.Context, owner string, purchase domain.Purchase) (bool, error) {
	ctx, span := s.StartSpan(ctx, "Service.AddPurchase",
		attribute.String("owner", owner),
		attribute.Int64("item.id", purchase.ProductID),
	)
	defer span.End()

	patched, err := s.inner.AddPurchase(ctx, owner, purchase)
	if err != nil {
		return false, s.HandleError(ctx, span, err, "failed to add purchase", slog.String("owner", owner))
	}
	span.SetAttributes(attribute.Bool("history.patched", patched))
	if !patched {
		s.LogInfo(ctx, "history not loaded, purchase patch skipped", slog.String("owner", owner))
	}
	return patched, nil
}

func (s *Service) recordFallback(ctx context.Context, owner string, before, after ports.View) {
	if before.FellBack() || !after.FellBack() {
		return
	}
	observability.Add(ctx, s.fallbacks, 1)
	s.LogWarn(ctx, "history fell back to empty endpoint", slog.String("owner", owner))
}

var _ ports.Service = (*Service)(nil)
