package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestInit_DecoratedCountersAreCollected(t *testing.T) {
	ctx := context.Background()
	instruments, shutdown, err := Init(ctx, Settings{
		ServiceName: "storefront-test",
		Environment: "test",
		LogLevel:    slog.LevelWarn,
	})
	require.NoError(t, err)

	d := NewDecorator("internal.cart.application", instruments.Decorate("internal.cart.application")...)
	mutations := d.Counter(CounterCartMutations, "Number of cart mutations by operation")
	mutations.Add(ctx, 2, metric.WithAttributes(attribute.String("operation", "add")))
	mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "remove")))

	total, err := instruments.CounterTotal(ctx, CounterCartMutations)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	untouched, err := instruments.CounterTotal(ctx, CounterHistoryFallbacks)
	require.NoError(t, err)
	require.Zero(t, untouched)

	require.NoError(t, shutdown(ctx))
}

func TestDecorate_NilInstruments(t *testing.T) {
	var instruments *Instruments
	require.Nil(t, instruments.Decorate("scope"))

	_, err := instruments.CounterTotal(context.Background(), CounterCartMutations)
	require.Error(t, err)
}
