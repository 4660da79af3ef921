package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"storepulse/internal/config"
)

const (
	ServiceVersion  = "1.0.0"
	InstrumentScope = "storepulse"
)

// Telemetry owns the tracer and meter providers of one run. Spans go to the
// configured traces file as JSON lines, metrics are collected into Registry
// and written as a Prometheus textfile on Shutdown.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry

	rowsLoaded  metric.Int64Counter
	logger      *slog.Logger
	traceOut    io.Closer
	metricsFile string
}

// NewTelemetry builds the providers described by cfg. Empty file settings
// keep spans and metrics in memory only.
func NewTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name := cfg.ServiceName
	if name == "" {
		name = InstrumentScope
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(ServiceVersion),
	)

	t := &Telemetry{
		Registry:    prometheus.NewRegistry(),
		logger:      logger.With("component", "telemetry"),
		metricsFile: cfg.MetricsFile,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		t.closeTraceOut()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	t.logger.Debug("telemetry initialized",
		slog.String("service", name),
		slog.String("traces_file", cfg.TracesFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if cfg.TracesFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TracesFile), 0755); err != nil {
			return err
		}
		f, err := os.Create(cfg.TracesFile)
		if err != nil {
			return err
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.traceOut = f
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	t.TracerProvider = sdktrace.NewTracerProvider(opts...)
	t.Tracer = t.TracerProvider.Tracer(InstrumentScope, trace.WithInstrumentationVersion(ServiceVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(InstrumentScope, metric.WithInstrumentationVersion(ServiceVersion))

	t.rowsLoaded, err = t.Meter.Int64Counter(
		"storepulse_rows_loaded",
		metric.WithDescription("Rows loaded from input extracts"),
	)
	return err
}

// RecordRows counts rows loaded for one source extract.
func (t *Telemetry) RecordRows(ctx context.Context, source, year string, n int) {
	if t == nil || t.rowsLoaded == nil {
		return
	}
	t.rowsLoaded.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("year", year),
	))
}

// StartSpan starts a span on the run tracer.
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil || t.Tracer == nil {
		return trace.SpanFromContext(ctx).TracerProvider().Tracer(InstrumentScope).Start(ctx, name)
	}
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks the span in ctx as failed.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Shutdown flushes spans, writes the metrics textfile and releases files.
// Every step runs even when an earlier one fails.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs error

	if t.TracerProvider != nil {
		errs = multierr.Append(errs, t.TracerProvider.Shutdown(ctx))
	}
	if t.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			errs = multierr.Append(errs, prometheus.WriteToTextfile(t.metricsFile, t.Registry))
		}
	}
	if t.MeterProvider != nil {
		errs = multierr.Append(errs, t.MeterProvider.Shutdown(ctx))
	}
	errs = multierr.Append(errs, t.closeTraceOut())

	if errs != nil {
		t.logger.WarnContext(ctx, "telemetry shutdown incomplete", slog.String("error", errs.Error()))
	}
	return errs
}

func (t *Telemetry) closeTraceOut() error {
	if t.traceOut == nil {
		return nil
	}
	err := t.traceOut.Close()
	t.traceOut = nil
	return err
}
