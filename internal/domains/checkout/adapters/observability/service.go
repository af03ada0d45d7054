package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout port with tracing, logging, and metrics.
type Service struct {
	observability.Decorator
	inner        ports.Service
	transactions metric.Int64Counter
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...observability.Option) ports.Service {
	d := observability.NewDecorator(tracerName, opts...)
	return &Service{
		Decorator:    d,
		inner:        inner,
		transactions: d.Counter(observability.CounterCheckoutTransactions, "Number of wallet transactions by kind and outcome"),
	}
}

func (s *Service) WalletConnected(ctx context.Context, owner string) (bool, error) {
	ctx, span := s.StartSpan(ctx, "Service.WalletConnected", attribute.String("owner", owner))
	defer span.End()

	ok, err := s.inner.WalletConnected(ctx, owner)
	if err != nil {
		return false, s.HandleError(ctx, span, err, "failed to read wallet state", slog.String("owner", owner))
	}
	span.SetAttributes(attribute.Bool("wallet.connected", ok))
	return ok, nil
}

func (s *Service) Connect(ctx context.Context, owner string) (bool, error) {
	ctx, span := s.StartSpan(ctx, "Service.Connect", attribute.String("owner", owner))
	defer span.End()

	ok, err := s.inner.Connect(ctx, owner)
	if err != nil {
		return false, s.HandleError(ctx, span, err, "failed to connect wallet", slog.String("owner", owner))
	}
	if !ok {
		s.LogWarn(ctx, "wallet connection timed out", slog.String("owner", owner))
	}
	span.SetAttributes(attribute.Bool("wallet.connected", ok))
	return ok, nil
}

func (s *Service) WaitForConnection(ctx context.Context, owner string) bool {
	ctx, span := s.StartSpan(ctx, "Service.WaitForConnection", attribute.String("owner", owner))
	defer span.End()

	ok := s.inner.WaitForConnection(ctx, owner)
	span.SetAttributes(attribute.Bool("wallet.connected", ok))
	return ok
}

func (s *Service) BuyNow(ctx context.Context, owner string, productID int64, qty int) (ports.Receipt, error) {
	ctx, span := s.StartSpan(ctx, "Service.BuyNow",
		attribute.String("owner", owner),
		attribute.Int64("item.id", productID),
		attribute.Int("item.qty", qty),
	)
	defer span.End()

	receipt, err := s.inner.BuyNow(ctx, owner, productID, qty)
	return s.finish(ctx, span, domain.KindBuyNow, receipt, err)
}

func (s *Service) CheckoutCart(ctx context.Context, owner string) (ports.Receipt, error) {
	ctx, span := s.StartSpan(ctx, "Service.CheckoutCart", attribute.String("owner", owner))
	defer span.End()

	receipt, err := s.inner.CheckoutCart(ctx, owner)
	return s.finish(ctx, span, domain.KindCart, receipt, err)
}

func (s *Service) finish(ctx context.Context, span trace.Span, kind domain.Kind, receipt ports.Receipt, err error) (ports.Receipt, error) {
	if err != nil {
		observability.Add(ctx, s.transactions, 1,
			attribute.String("kind", string(kind)),
			attribute.String("outcome", outcome(err)),
		)
		return receipt, s.HandleError(ctx, span, err, "checkout failed",
			slog.String("kind", string(kind)), slog.String("orderId", receipt.Order.ID))
	}
	observability.Add(ctx, s.transactions, 1,
		attribute.String("kind", string(kind)),
		attribute.String("outcome", "sent"),
	)
	span.SetAttributes(
		attribute.String("order.id", receipt.Order.ID),
		attribute.String("order.amount", receipt.Order.Total().String()),
	)
	s.LogInfo(ctx, "checkout sent",
		slog.String("kind", string(kind)),
		slog.String("orderId", receipt.Order.ID),
		slog.Bool("historyRecorded", receipt.Recorded),
	)
	return receipt, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ports.ErrWalletUnavailable):
		return "unavailable"
	case errors.Is(err, ports.ErrTransactionRejected):
		return "rejected"
	default:
		return "error"
	}
}

var _ ports.Service = (*Service)(nil)
