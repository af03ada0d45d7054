package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Decorator holds the span, log and counter plumbing shared by the service
// decorators in each domain's adapters/observability package.
type Decorator struct {
	tracerName string
	tracer     trace.Tracer
	logger     *slog.Logger
	meter      metric.Meter
}

// Option customises a Decorator.
type Option func(*Decorator)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decorator) {
		d.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(d *Decorator) {
		d.tracer = tr
	}
}

// WithMeter injects the meter used to create counters.
func WithMeter(m metric.Meter) Option {
	return func(d *Decorator) {
		d.meter = m
	}
}

// NewDecorator applies opts over no-op defaults.
func NewDecorator(tracerName string, opts ...Option) Decorator {
	d := Decorator{tracerName: tracerName}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	if d.tracer == nil {
		d.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Counter creates a named counter, or nil when no meter was injected.
func (d Decorator) Counter(name, description string) metric.Int64Counter {
	if d.meter == nil {
		return nil
	}
	counter, err := d.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil
	}
	return counter
}

func (d Decorator) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := d.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(d.tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (d Decorator) LogInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if d.logger == nil {
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (d Decorator) LogWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if d.logger == nil {
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// HandleError records err on the span, logs it and returns it unchanged.
func (d Decorator) HandleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if d.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		d.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

// Add increments counter when it exists.
func Add(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
