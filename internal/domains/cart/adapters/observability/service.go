package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the cart port with tracing, logging, and metrics.
type Service struct {
	observability.Decorator
	inner     ports.Service
	mutations metric.Int64Counter
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...observability.Option) ports.Service {
	d := observability.NewDecorator(tracerName, opts...)
	return &Service{
		Decorator: d,
		inner:     inner,
		mutations: d.Counter(observability.CounterCartMutations, "Number of cart mutations by operation"),
	}
}

func (s *Service) Get(ctx context.Context, owner string) (ports.View, error) {
	ctx, span := s.StartSpan(ctx, "Service.Get", attribute.String("owner", owner))
	defer span.End()

	view, err := s.inner.Get(ctx, owner)
	if err != nil {
		return view, s.HandleError(ctx, span, err, "failed to load cart", slog.String("owner", owner))
	}
	setViewAttributes(span, view)
	return view, nil
}

func (s *Service) AddItem(ctx context.Context, owner string, productID int64) (ports.View, error) {
	return s.mutate(ctx, "add", owner, productID, func(ctx context.Context) (ports.View, error) {
		return s.inner.AddItem(ctx, owner, productID)
	})
}

func (s *Service) ChangeQty(ctx context.Context, owner string, productID int64, delta int) (ports.View, error) {
	return s.mutate(ctx, "change_qty", owner, productID, func(ctx context.Context) (ports.View, error) {
		return s.inner.ChangeQty(ctx, owner, productID, delta)
	})
}

func (s *Service) RemoveItem(ctx context.Context, owner string, productID int64) (ports.View, error) {
	return s.mutate(ctx, "remove", owner, productID, func(ctx context.Context) (ports.View, error) {
		return s.inner.RemoveItem(ctx, owner, productID)
	})
}

func (s *Service) Clear(ctx context.Context, owner string) (ports.View, error) {
	return s.mutate(ctx, "clear", owner, 0, func(ctx context.Context) (ports.View, error) {
		return s.inner.Clear(ctx, owner)
	})
}

func (s *Service) IsInCart(ctx context.Context, owner string, productID int64) bool {
	return s.inner.IsInCart(ctx, owner, productID)
}

func (s *Service) mutate(ctx context.Context, op, owner string, productID int64, call func(context.Context) (ports.View, error)) (ports.View, error) {
	ctx, span := s.StartSpan(ctx, "Service.Mutate",
		attribute.String("cart.operation", op),
		attribute.String("owner", owner),
		attribute.Int64("item.id", productID),
	)
	defer span.End()

	view, err := call(ctx)
	if err != nil {
		return view, s.HandleError(ctx, span, err, "cart mutation failed",
			slog.String("operation", op),
			slog.String("owner", owner),
			slog.Int64("item.id", productID),
		)
	}
	observability.Add(ctx, s.mutations, 1, attribute.String("operation", op))
	setViewAttributes(span, view)
	return view, nil
}

func setViewAttributes(span trace.Span, view ports.View) {
	span.SetAttributes(
		attribute.Int("cart.count", view.Count),
		attribute.Int("cart.distinct", view.Distinct),
		attribute.String("cart.total", view.Total.String()),
	)
}

var _ ports.Service = (*Service)(nil)
