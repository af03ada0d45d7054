package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	walletbridge "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/wallet/bridge"
	walletmemory "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/wallet/memory"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

// ErrTemporalDisabled is returned by ConnectTemporal when TEMPORAL_DISABLED is set.
var ErrTemporalDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED")

// ConnectTemporal dials the Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, ErrTemporalDisabled
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(component)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// WalletSessions is a wallet that also accepts session registration.
type WalletSessions interface {
	checkoutports.Wallet
	checkoutports.Sessions
}

// BuildWallet relays to the wallet bridge when WALLET_BRIDGE_URL is set.
// Without it sessions live in this process only, which is enough for a
// single API process with inline checkout.
func BuildWallet(cfg Config, httpClient *http.Client, logger *slog.Logger) (WalletSessions, error) {
	if cfg.WalletBridgeURL == "" {
		logger.Warn("WALLET_BRIDGE_URL not set, wallet sessions are kept in memory")
		return walletmemory.NewWallet(), nil
	}
	c, err := envelope.NewClient(cfg.WalletBridgeURL, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "wallet bridge client")
	}
	logger.Info("wallet sessions relayed to bridge", slog.String("url", cfg.WalletBridgeURL))
	return walletbridge.NewWallet(c), nil
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
