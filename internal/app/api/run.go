package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/telegram"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/walletlist"
	cartcatalogue "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/catalogue"
	cartobs "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability"
	cartpersistence "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/persistence"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogueobs "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/adapters/observability"
	catalogueremote "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/adapters/remote"
	catalogueapp "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/application"
	checkoutobs "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/storefront"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	historyobs "github.com/Apurer/go-gin-storefront/internal/domains/history/adapters/observability"
	historyremote "github.com/Apurer/go-gin-storefront/internal/domains/history/adapters/remote"
	historyapp "github.com/Apurer/go-gin-storefront/internal/domains/history/application"
	prefspersistence "github.com/Apurer/go-gin-storefront/internal/domains/preferences/adapters/persistence"
	prefsapp "github.com/Apurer/go-gin-storefront/internal/domains/preferences/application"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, persistence, and workflows wired.
// It returns once ctx is cancelled and the server and state flush have drained.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Telemetry(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	decorate := instruments.Decorate

	kv, _, closeStore, err := OpenStateStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	persister := persist.NewPersister(kv,
		persist.WithFlushInterval(cfg.PersistFlushInterval),
		persist.WithLogger(logger),
	)

	httpClient := &http.Client{Timeout: 15 * time.Second}
	remote, err := envelope.NewClient(cfg.CatalogueBaseURL, httpClient)
	if err != nil {
		return fmt.Errorf("catalogue client: %w", err)
	}

	catalogue := catalogueobs.New(
		catalogueapp.NewService(catalogueremote.NewSource(remote)),
		decorate("internal.catalogue.application")...,
	)
	history := historyobs.New(
		historyapp.NewService(historyremote.NewSource(remote)),
		decorate("internal.history.application")...,
	)

	var coreCart *cartapp.Service
	cartStore := cartpersistence.Bind(persister, func(owner string) (any, bool) { return coreCart.Snapshot(owner) })
	coreCart = cartapp.NewService(cartcatalogue.NewProducts(catalogue), cartStore)
	coreCart.WithLogger(logger)
	cart := cartobs.New(coreCart, decorate("internal.cart.application")...)

	var preferences *prefsapp.Service
	prefsStore := prefspersistence.Bind(persister, func(owner string) (any, bool) { return preferences.Snapshot(owner) })
	preferences = prefsapp.NewService(prefsStore)

	wallet, err := BuildWallet(cfg, httpClient, logger)
	if err != nil {
		return err
	}
	var submissions checkoutports.WorkflowOrchestrator = checkoutworkflows.NewInlineCheckoutWorkflows(wallet)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, sending transactions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		submissions = checkoutworkflows.NewTemporalCheckoutWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	if cfg.MerchantAddress == "" {
		logger.Warn("MERCHANT_ADDRESS not set, checkout requests will be rejected")
	}
	checkout := checkoutobs.New(
		checkoutapp.NewService(
			checkoutapp.Config{
				Merchant:       cfg.MerchantAddress,
				PollInterval:   cfg.WalletPollInterval,
				ConnectTimeout: cfg.WalletConnectTimeout,
			},
			checkoutapp.Dependencies{
				Wallet:    wallet,
				Products:  storefront.NewProducts(catalogue),
				Cart:      storefront.NewCart(cart),
				History:   storefront.NewHistory(history),
				Workflows: submissions,
			},
			checkoutapp.WithLogger(logger),
		),
		decorate("internal.checkout.application")...,
	)

	windows := reveal.NewRegistry(cfg.RevealBatch)
	handlers := storefrontserver.ApiHandleFunctions{
		CatalogueAPI:   storefrontserver.NewCatalogueAPI(catalogue, cart, windows),
		HistoryAPI:     storefrontserver.NewHistoryAPI(history, catalogue, windows),
		CartAPI:        storefrontserver.NewCartAPI(cart),
		PreferencesAPI: storefrontserver.NewPreferencesAPI(preferences),
		CheckoutAPI:    storefrontserver.NewCheckoutAPI(checkout, wallet),
		ProxyAPI: storefrontserver.NewProxyAPI(
			walletlist.NewClient(cfg.WalletListURL, httpClient, walletlist.DefaultTTL),
			telegram.NewClient(cfg.TelegramBotToken, telegram.DefaultTTL, telegram.WithHTTPClient(httpClient)),
		),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := storefrontserver.NewRouterWithGinEngine(engine, handlers)

	flushCtx, stopFlush := context.WithCancel(context.WithoutCancel(ctx))
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		persister.Run(flushCtx)
	}()
	defer func() {
		stopFlush()
		<-flushed
	}()

	addr := net.JoinHostPort("", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down storefront API")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 25*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("storefront API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
