//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/go-gin-storefront/test/pact"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	cartcatalogue "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/catalogue"
	cartobs "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogueobs "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/adapters/observability"
	catalogueapp "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/application"
	cataloguedomain "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type seededSource struct{}

func (seededSource) FetchItems(context.Context) ([]cataloguedomain.Item, error) {
	return []cataloguedomain.Item{{
		ID:          pacttest.ExistingItemID,
		Name:        "Pact Tee",
		Category:    "Tee",
		Description: "Contract cotton",
		Price:       decimal.RequireFromString("12.5"),
		Currency:    "TON",
		Left:        3,
		Tags:        cataloguedomain.Tags{Fabric: "cotton"},
		Images:      []string{"https://example.pact/items/101.png"},
	}}, nil
}

func TestStorefrontProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := newContractProviderServer(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	noop := func(bool, models.ProviderState) (models.ProviderStateResponse, error) { return nil, nil }
	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateCatalogueSeeded: noop,
			pacttest.StateItemMissing:     noop,
		},
	})
	require.NoError(t, err)
}

func newContractProviderServer(t testing.TB) *httptest.Server {
	t.Helper()

	catalogue := catalogueobs.New(catalogueapp.NewService(seededSource{}))
	cart := cartobs.New(cartapp.NewService(cartcatalogue.NewProducts(catalogue), nil))
	windows := reveal.NewRegistry(reveal.DefaultBatch)

	handlers := storefrontserver.ApiHandleFunctions{
		CatalogueAPI: storefrontserver.NewCatalogueAPI(catalogue, cart, windows),
		CartAPI:      storefrontserver.NewCartAPI(cart),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}
