package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Counters recorded by the storefront service decorators.
const (
	CounterCatalogueRefetches   = "catalogue.service.refetches"
	CounterHistoryFallbacks     = "history.service.fallbacks"
	CounterCartMutations        = "cart.service.mutations"
	CounterCheckoutTransactions = "checkout.service.transactions"
)

// StorefrontCounters lists every counter summarized at shutdown.
var StorefrontCounters = []string{
	CounterCatalogueRefetches,
	CounterHistoryFallbacks,
	CounterCartMutations,
	CounterCheckoutTransactions,
}

// Settings configure telemetry for one storefront process.
type Settings struct {
	ServiceName string
	Environment string
	LogLevel    slog.Level
	// OTLPEndpoint is host:port of an OTLP/HTTP collector. Empty writes spans to stdout.
	OTLPEndpoint string
	OTLPInsecure bool
}

// Instruments bundles the runtime-wide observability dependencies.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	reader *sdkmetric.ManualReader
}

// Init configures slog, OpenTelemetry tracing, and meters for the process.
// The returned shutdown logs the storefront counter totals and flushes
// pending spans.
func Init(ctx context.Context, settings Settings) (*Instruments, func(context.Context) error, error) {
	logger := newLogger(settings)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", settings.ServiceName),
			attribute.String("deployment.environment", settings.Environment),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	spanExporter, err := newSpanExporter(ctx, settings, logger)
	if err != nil {
		return nil, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	instruments := &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		reader:         reader,
	}

	shutdown := func(ctx context.Context) error {
		instruments.logCounters(ctx)
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}

	return instruments, shutdown, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter from the configured provider.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

// Decorate returns the options a service decorator in scope is built with.
func (i *Instruments) Decorate(scope string) []Option {
	if i == nil {
		return nil
	}
	return []Option{WithLogger(i.Logger), WithTracer(i.Tracer(scope)), WithMeter(i.Meter(scope))}
}

// CounterTotal sums every data point of the named counter collected so far.
func (i *Instruments) CounterTotal(ctx context.Context, name string) (int64, error) {
	if i == nil || i.reader == nil {
		return 0, errors.New("metrics reader not configured")
	}
	var rm metricdata.ResourceMetrics
	if err := i.reader.Collect(ctx, &rm); err != nil {
		return 0, err
	}
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total, nil
}

func (i *Instruments) logCounters(ctx context.Context) {
	attrs := make([]slog.Attr, 0, len(StorefrontCounters))
	for _, name := range StorefrontCounters {
		total, err := i.CounterTotal(ctx, name)
		if err != nil {
			i.Logger.Warn("failed to collect counters", slog.String("error", err.Error()))
			return
		}
		attrs = append(attrs, slog.Int64(name, total))
	}
	i.Logger.LogAttrs(ctx, slog.LevelInfo, "storefront counters", attrs...)
}

func newLogger(settings Settings) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: settings.LogLevel, AddSource: true})
	logger := slog.New(handler).With(
		slog.String("service", settings.ServiceName),
		slog.String("environment", settings.Environment),
	)
	slog.SetDefault(logger)
	return logger
}

func newSpanExporter(ctx context.Context, settings Settings, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	if settings.OTLPEndpoint == "" {
		logger.Info("no OTLP endpoint configured, writing spans to stdout")
		return stdouttrace.New()
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(settings.OTLPEndpoint)}
	if settings.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err == nil {
		return exporter, nil
	}
	logger.Warn("failed to initialize OTLP trace exporter, falling back to stdout", slog.String("error", err.Error()))
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}
