package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	checkoutactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/checkout"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Telemetry(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	if cfg.WalletBridgeURL == "" {
		logger.Warn("worker without WALLET_BRIDGE_URL cannot see sessions registered through the API")
	}
	wallet, err := api.BuildWallet(cfg, &http.Client{Timeout: 2 * time.Minute}, logger)
	if err != nil {
		logger.Error("failed to build wallet", slog.String("error", err.Error()))
		os.Exit(1)
	}
	walletActivities := checkoutactivities.NewActivities(wallet)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.SubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.SubmissionWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.SubmissionWorkflowName})
	w.RegisterActivityWithOptions(walletActivities.EnsureConnected, activity.RegisterOptions{Name: checkoutactivities.EnsureConnectedActivityName})
	w.RegisterActivityWithOptions(walletActivities.SendTransaction, activity.RegisterOptions{Name: checkoutactivities.SendTransactionActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.SubmissionTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
