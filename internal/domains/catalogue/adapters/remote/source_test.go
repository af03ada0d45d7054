package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
)

func newSource(t *testing.T, body string) *Source {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/static/items.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client, err := envelope.NewClient(srv.URL+"/static", nil)
	require.NoError(t, err)
	return NewSource(client)
}

func TestFetchItems_MapsPayload(t *testing.T) {
	src := newSource(t, `{"ok":true,"data":[{"id":7,"name":"Red","category":"Tee","description":"soft","price":12.5,"currency":"TON","left":3,"tags":{"fabric":"cotton"},"images":["a.png"]}]}`)

	items, err := src.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	require.Equal(t, int64(7), item.ID)
	require.True(t, decimal.RequireFromString("12.5").Equal(item.Price))
	require.Equal(t, "cotton", item.Tags.Fabric)
	require.Equal(t, "a.png", item.CoverImage())
}

func TestFetchItems_DefaultsCurrency(t *testing.T) {
	src := newSource(t, `{"ok":true,"data":[{"id":1,"price":1}]}`)

	items, err := src.FetchItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, "TON", items[0].Currency)
}

func TestFetchItems_SurfacesAPIError(t *testing.T) {
	src := newSource(t, `{"ok":false,"error":{"code":500,"message":"down"}}`)

	_, err := src.FetchItems(context.Background())
	var apiErr *envelope.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "down", apiErr.Message)
}
