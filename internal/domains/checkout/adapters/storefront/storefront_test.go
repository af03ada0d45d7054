package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartcatalogue "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/catalogue"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogueapp "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/application"
	cataloguedomain "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	historyapp "github.com/Apurer/go-gin-storefront/internal/domains/history/application"
	historydomain "github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
)

type itemsSource []cataloguedomain.Item

func (s itemsSource) FetchItems(context.Context) ([]cataloguedomain.Item, error) {
	return s, nil
}

type historySource []historydomain.Purchase

func (s historySource) FetchHistory(context.Context) ([]historydomain.Purchase, error) {
	return s, nil
}

func (s historySource) FetchEmptyHistory(context.Context) ([]historydomain.Purchase, error) {
	return nil, nil
}

func catalogue() *catalogueapp.Service {
	return catalogueapp.NewService(itemsSource{
		{ID: 1, Category: "Tee", Name: "Red", Price: decimal.NewFromInt(10), Currency: "TON"},
		{ID: 2, Category: "Hoodie", Name: "Blue", Price: decimal.NewFromInt(5), Currency: "TON"},
	})
}

func TestProducts_Line(t *testing.T) {
	products := NewProducts(catalogue())

	line, err := products.Line(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, "Tee Red x3", line.Label())
	require.Equal(t, "30", line.Subtotal().String())

	_, err = products.Line(context.Background(), 99, 1)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestCart_LinesAndClear(t *testing.T) {
	ctx := context.Background()
	svc := cartapp.NewService(cartcatalogue.NewProducts(catalogue()), nil)
	_, err := svc.AddItem(ctx, "42", 2)
	require.NoError(t, err)
	_, err = svc.ChangeQty(ctx, "42", 2, 1)
	require.NoError(t, err)

	cart := NewCart(svc)
	lines, err := cart.Lines(ctx, "42")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Qty)
	require.Equal(t, "Blue", lines[0].Name)

	require.NoError(t, cart.Clear(ctx, "42"))
	lines, err = cart.Lines(ctx, "42")
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestHistory_RecordPatchesLoadedHistory(t *testing.T) {
	ctx := context.Background()
	svc := historyapp.NewService(historySource{
		{Timestamp: 1_600_000_000_000, ProductID: 2, Total: decimal.NewFromInt(5), Currency: "TON"},
	})
	history := NewHistory(svc)
	line, err := NewProducts(catalogue()).Line(ctx, 1, 2)
	require.NoError(t, err)
	at := time.UnixMilli(1_700_000_000_000)

	recorded, err := history.Record(ctx, "42", at, []domain.OrderLine{line})
	require.NoError(t, err)
	require.False(t, recorded, "history not loaded yet")

	_, err = svc.Load(ctx, "42")
	require.NoError(t, err)
	recorded, err = history.Record(ctx, "42", at, []domain.OrderLine{line})
	require.NoError(t, err)
	require.True(t, recorded)

	view := svc.State("42")
	newest := historydomain.VisibleItems(view.Result.Data, 1)
	require.Equal(t, int64(1), newest[0].ProductID)
	require.Equal(t, "20", newest[0].Total.String())
}
