package api

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("", environ("HOME=/root"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 30*24*time.Hour, cfg.StaleAfter())
	require.Equal(t, slog.LevelInfo, cfg.Telemetry("storefront-api").LogLevel)
	require.True(t, cfg.OTLPInsecure)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	cfg, err := loadConfig("", environ(
		"PORT=9090",
		"PERSIST_DRIVER=memory",
		"WALLET_POLL_INTERVAL=250ms",
		"TEMPORAL_DISABLED=true",
		"REVEAL_BATCH=4",
		"MERCHANT_ADDRESS= EQmerchant ",
		"ENVIRONMENT=staging",
		"LOG_LEVEL=debug",
		"OTEL_EXPORTER_OTLP_ENDPOINT=collector:4318",
		"OTEL_EXPORTER_OTLP_INSECURE=false",
		"UNRELATED=ignored",
	))
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, DriverMemory, cfg.PersistDriver)
	require.Equal(t, 250*time.Millisecond, cfg.WalletPollInterval)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, 4, cfg.RevealBatch)
	require.Equal(t, "EQmerchant", cfg.MerchantAddress)

	telemetry := cfg.Telemetry("storefront-api")
	require.Equal(t, "storefront-api", telemetry.ServiceName)
	require.Equal(t, "staging", telemetry.Environment)
	require.Equal(t, slog.LevelDebug, telemetry.LogLevel)
	require.Equal(t, "collector:4318", telemetry.OTLPEndpoint)
	require.False(t, telemetry.OTLPInsecure)
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\ncatalogue_base_url: https://shop.example/\npurge_stale_after_hours: 12\n"), 0o600))

	cfg, err := loadConfig(path, environ("PORT=6060"))
	require.NoError(t, err)
	require.Equal(t, "6060", cfg.Port)
	require.Equal(t, "https://shop.example/", cfg.CatalogueBaseURL)
	require.Equal(t, 12*time.Hour, cfg.StaleAfter())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), environ())
	require.Error(t, err)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := map[string][]string{
		"unknown driver":     {"PERSIST_DRIVER=redis"},
		"postgres needs dsn": {"PERSIST_DRIVER=postgres"},
		"zero batch":         {"REVEAL_BATCH=0"},
		"bad purge hours":    {"PURGE_STALE_AFTER_HOURS=-1"},
		"zero timeout":       {"WALLET_CONNECT_TIMEOUT=0s"},
		"unknown log level":  {"LOG_LEVEL=chatty"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig("", environ(vars...))
			require.Error(t, err)
		})
	}
}
