//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-storefront/test/pact"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	catalogueremote "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/adapters/remote"
	historyremote "github.com/Apurer/go-gin-storefront/internal/domains/history/adapters/remote"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

func TestStorefrontDataContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ProviderName,
		Provider: pacttest.DataProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	item := pacttest.ExampleItemPayload()
	purchase := pacttest.ExamplePurchasePayload()
	jsonContentType := matchers.Regex("application/json", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateItemsPublished).
		UponReceiving("a request for the catalogue").
		WithRequest("GET", "/items.json").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok": matchers.Like(true),
				"data": matchers.EachLike(matchers.Map{
					"id":          matchers.Like(item["id"]),
					"name":        matchers.Like(item["name"]),
					"category":    matchers.Like(item["category"]),
					"description": matchers.Like(item["description"]),
					"price":       matchers.Like(item["price"]),
					"currency":    matchers.Like(item["currency"]),
					"left":        matchers.Like(item["left"]),
					"tags":        matchers.Map{"fabric": matchers.Like("cotton")},
					"images":      matchers.EachLike("https://example.pact/items/101.png", 1),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateHistoryPublished).
		UponReceiving("a request for the purchase history").
		WithRequest("GET", "/history.json").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok": matchers.Like(true),
				"data": matchers.EachLike(matchers.Map{
					"timestamp": matchers.Like(purchase["timestamp"]),
					"id":        matchers.Like(purchase["id"]),
					"total":     matchers.Like(purchase["total"]),
					"currency":  matchers.Like(purchase["currency"]),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateHistoryPublished).
		UponReceiving("a request for the empty history fixture").
		WithRequest("GET", "/no_history.json").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(map[string]any{"ok": true, "data": []any{}})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := envelope.NewClient(fmt.Sprintf("http://%s:%d/", host, config.Port), &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		items, err := catalogueremote.NewSource(client).FetchItems(ctx)
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
		if len(items) == 0 || items[0].ID != pacttest.ExistingItemID {
			return fmt.Errorf("expected item %d, got %+v", pacttest.ExistingItemID, items)
		}

		history := historyremote.NewSource(client)
		purchases, err := history.FetchHistory(ctx)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		if len(purchases) == 0 {
			return fmt.Errorf("expected at least one purchase")
		}
		empty, err := history.FetchEmptyHistory(ctx)
		if err != nil {
			return fmt.Errorf("fetch empty history: %w", err)
		}
		if len(empty) != 0 {
			return fmt.Errorf("expected no purchases, got %d", len(empty))
		}
		return nil
	})
	require.NoError(t, err)
}
