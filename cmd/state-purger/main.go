package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	_, store, cleanup, err := api.OpenStateStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open state store: %v", err)
	}
	defer cleanup()
	if store == nil {
		log.Fatal("PERSIST_DRIVER=memory keeps no durable state; nothing to purge")
	}

	purged, err := store.PurgeStale(ctx, cfg.StaleAfter())
	if err != nil {
		log.Fatalf("failed to purge owner state: %v", err)
	}
	logger.Info("owner state purge completed", slog.Int64("purged", purged), slog.Duration("olderThan", cfg.StaleAfter()))
}
