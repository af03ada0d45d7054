package api

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/walletlist"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
	persistpostgres "github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/postgres"
	persistsqlite "github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/sqlite"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"
)

// ConfigFileEnv names the variable holding an optional YAML config path.
const ConfigFileEnv = "STOREFRONT_CONFIG"

// Persistence drivers accepted by PERSIST_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config carries file and environment driven settings for the storefront processes.
// Keys are the lower-cased environment names, so PORT and `port:` in YAML are the same setting.
type Config struct {
	Port                 string        `koanf:"port"`
	CatalogueBaseURL     string        `koanf:"catalogue_base_url"`
	WalletListURL        string        `koanf:"wallet_list_url"`
	WalletBridgeURL      string        `koanf:"wallet_bridge_url"`
	MerchantAddress      string        `koanf:"merchant_address"`
	TelegramBotToken     string        `koanf:"telegram_bot_token"`
	PersistDriver        string        `koanf:"persist_driver"`
	SQLitePath           string        `koanf:"sqlite_path"`
	PostgresDSN          string        `koanf:"postgres_dsn"`
	PersistFlushInterval time.Duration `koanf:"persist_flush_interval"`
	WalletPollInterval   time.Duration `koanf:"wallet_poll_interval"`
	WalletConnectTimeout time.Duration `koanf:"wallet_connect_timeout"`
	TemporalAddress      string        `koanf:"temporal_address"`
	TemporalNamespace    string        `koanf:"temporal_namespace"`
	TemporalDisabled     bool          `koanf:"temporal_disabled"`
	PurgeStaleAfterHours int           `koanf:"purge_stale_after_hours"`
	RevealBatch          int           `koanf:"reveal_batch"`
	Environment          string        `koanf:"environment"`
	LogLevel             string        `koanf:"log_level"`
	OTLPEndpoint         string        `koanf:"otel_exporter_otlp_endpoint"`
	OTLPInsecure         bool          `koanf:"otel_exporter_otlp_insecure"`
}

// DefaultConfig returns the settings used when neither file nor environment set a key.
func DefaultConfig() Config {
	return Config{
		Port:                 "8080",
		CatalogueBaseURL:     "http://localhost:3000/",
		WalletListURL:        walletlist.DefaultURL,
		PersistDriver:        DriverSQLite,
		SQLitePath:           persistsqlite.DefaultPath,
		PersistFlushInterval: persist.DefaultFlushInterval,
		WalletPollInterval:   checkoutapp.DefaultPollInterval,
		WalletConnectTimeout: checkoutapp.DefaultConnectTimeout,
		TemporalAddress:      client.DefaultHostPort,
		TemporalNamespace:    client.DefaultNamespace,
		PurgeStaleAfterHours: int(persistpostgres.DefaultStaleAfter / time.Hour),
		RevealBatch:          reveal.DefaultBatch,
		Environment:          "local",
		LogLevel:             "info",
		OTLPInsecure:         true,
	}
}

// LoadConfig reads the optional YAML file, overlays the environment, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv(ConfigFileEnv), os.Environ)
}

func loadConfig(path string, environ func() []string) (Config, error) {
	k := koanf.New(".")
	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", path)
		}
	}

	known := configKeys()
	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(key)
			if _, ok := known[key]; !ok {
				return "", nil
			}
			return key, strings.TrimSpace(value)
		},
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "load environment")
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the processes cannot start with.
func (c Config) Validate() error {
	switch c.PersistDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required when PERSIST_DRIVER=postgres")
		}
	default:
		return errors.Errorf("PERSIST_DRIVER must be one of memory, sqlite, postgres; got %q", c.PersistDriver)
	}
	if strings.TrimSpace(c.CatalogueBaseURL) == "" {
		return errors.New("CATALOGUE_BASE_URL must not be empty")
	}
	if c.PersistFlushInterval <= 0 {
		return errors.New("PERSIST_FLUSH_INTERVAL must be positive")
	}
	if c.WalletPollInterval <= 0 || c.WalletConnectTimeout <= 0 {
		return errors.New("WALLET_POLL_INTERVAL and WALLET_CONNECT_TIMEOUT must be positive")
	}
	if c.PurgeStaleAfterHours <= 0 {
		return errors.New("PURGE_STALE_AFTER_HOURS must be a positive integer")
	}
	if c.RevealBatch <= 0 {
		return errors.New("REVEAL_BATCH must be a positive integer")
	}
	if strings.TrimSpace(c.Environment) == "" {
		return errors.New("ENVIRONMENT must not be empty")
	}
	if _, err := c.logLevel(); err != nil {
		return errors.Wrap(err, "LOG_LEVEL")
	}
	return nil
}

// Telemetry derives the observability settings of the named process.
// It assumes the config was validated.
func (c Config) Telemetry(serviceName string) platformobservability.Settings {
	level, _ := c.logLevel()
	return platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		LogLevel:     level,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
	}
}

func (c Config) logLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// StaleAfter is PurgeStaleAfterHours as a duration.
func (c Config) StaleAfter() time.Duration {
	return time.Duration(c.PurgeStaleAfterHours) * time.Hour
}

func configKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	for _, key := range []string{
		"port", "catalogue_base_url", "wallet_list_url", "wallet_bridge_url",
		"merchant_address", "telegram_bot_token", "persist_driver", "sqlite_path",
		"postgres_dsn", "persist_flush_interval", "wallet_poll_interval",
		"wallet_connect_timeout", "temporal_address", "temporal_namespace",
		"temporal_disabled", "purge_stale_after_hours", "reveal_batch",
		"environment", "log_level", "otel_exporter_otlp_endpoint", "otel_exporter_otlp_insecure",
	} {
		keys[key] = struct{}{}
	}
	return keys
}
