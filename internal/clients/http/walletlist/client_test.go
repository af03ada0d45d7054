package walletlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/upstream"
)

func TestWallets_RelaysBodyAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"app_name":"tonkeeper"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, time.Hour)
	body, err := client.Wallets(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `[{"app_name":"tonkeeper"}]`, string(body))

	_, err = client.Wallets(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestWallets_UpstreamFailuresAreNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, time.Hour)
	_, err := client.Wallets(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	var failed *upstream.Error
	require.ErrorAs(t, err, &failed)
	require.Equal(t, http.StatusBadGateway, failed.StatusCode)
	require.Equal(t, "nope\n", string(failed.Body))

	fail.Store(false)
	body, err := client.Wallets(context.Background())
	require.NoError(t, err)
	require.Equal(t, "[]", string(body))
}

func TestWallets_RejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil, 0).Wallets(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
}

func TestWallets_RejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`"`))
		_, _ = w.Write([]byte(strings.Repeat("a", upstream.MaxBodySize)))
		_, _ = w.Write([]byte(`"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil, 0).Wallets(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	require.ErrorIs(t, err, upstream.ErrTooLarge)
}
