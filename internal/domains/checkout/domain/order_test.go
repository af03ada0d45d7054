package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func line(id int64, category, name string, price string, qty int) OrderLine {
	return OrderLine{ProductID: id, Category: category, Name: name, Price: decimal.RequireFromString(price), Currency: "TON", Qty: qty}
}

func TestComment_BuyNowUsesSingleLabel(t *testing.T) {
	order, err := NewOrder("o1", "42", KindBuyNow, []OrderLine{line(1, "Tee", "Red", "10", 2)}, time.Now())
	require.NoError(t, err)

	require.Equal(t, "Tee Red x2", order.Comment())
}

func TestComment_CartIsItemized(t *testing.T) {
	order, err := NewOrder("o1", "42", KindCart, []OrderLine{
		line(1, "Tee", "Red", "10", 2),
		line(2, "Hoodie", "Blue", "5", 3),
	}, time.Now())
	require.NoError(t, err)

	require.Equal(t, "Cart: Tee Red x2, Hoodie Blue x3", order.Comment())
	require.Equal(t, "35", order.Total().String())
}

func TestLabel_FallsBackToProductID(t *testing.T) {
	require.Equal(t, "#7 x1", OrderLine{ProductID: 7, Qty: 1}.Label())
}

func TestNewOrder_Validates(t *testing.T) {
	cases := map[string]struct {
		kind  Kind
		lines []OrderLine
		want  error
	}{
		"empty":    {KindCart, nil, ErrEmptyOrder},
		"product":  {KindCart, []OrderLine{line(0, "a", "b", "1", 1)}, ErrInvalidProduct},
		"quantity": {KindCart, []OrderLine{line(1, "a", "b", "1", 0)}, ErrInvalidQuantity},
		"price":    {KindCart, []OrderLine{line(1, "a", "b", "-1", 1)}, ErrNegativePrice},
		"kind":     {Kind("gift"), []OrderLine{line(1, "a", "b", "1", 1)}, ErrInvalidKind},
		"currency": {KindCart, []OrderLine{line(1, "a", "b", "1", 1), {ProductID: 2, Qty: 1, Currency: "USD"}}, ErrMixedCurrency},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewOrder("o", "1", tc.kind, tc.lines, time.Now())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestToNanotons(t *testing.T) {
	require.Equal(t, "1000000000", ToNanotons(decimal.NewFromInt(1)))
	require.Equal(t, "12500000000", ToNanotons(decimal.RequireFromString("12.5")))
	require.Equal(t, "1", ToNanotons(decimal.RequireFromString("0.0000000019")))
	require.Equal(t, "0", ToNanotons(decimal.Zero))
}

func TestNewTransactionRequest(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	order, err := NewOrder("o1", "42", KindBuyNow, []OrderLine{line(1, "Tee", "Red", "0.5", 3)}, now)
	require.NoError(t, err)

	req, err := NewTransactionRequest(order, "EQmerchant", now, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "o1", req.ID)
	require.Equal(t, int64(1_700_000_060), req.ValidUntil)
	require.Len(t, req.Messages, 1)
	require.Equal(t, "1500000000", req.Messages[0].Amount)
	require.Equal(t, "Tee Red x3", req.Messages[0].Payload)

	_, err = NewTransactionRequest(order, "", now, time.Minute)
	require.ErrorIs(t, err, ErrMissingMerchant)
}
