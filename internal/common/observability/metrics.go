package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	turnCounter   otelmetric.Int64Counter
	turnDuration  otelmetric.Float64Histogram
}

// New builds an OpenTelemetry meter whose readings are exported into reg.
// Names and labels are escaped to the legacy Prometheus charset so the
// textfile collector accepts them.
func New(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(reg),
		prometheus.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	turnCounter, err := meter.Int64Counter(
		"dialog_turns",
		otelmetric.WithDescription("Number of dialog turns processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create turn counter: %w", err)
	}

	turnDuration, err := meter.Float64Histogram(
		"dialog_turn_duration",
		otelmetric.WithDescription("Dialog turn processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create turn duration histogram: %w", err)
	}

	return &Observability{
		meterProvider: provider,
		turnCounter:   turnCounter,
		turnDuration:  turnDuration,
	}, nil
}

// RecordTurnProcessed counts a turn; status is the dialog action or the error code.
func (o *Observability) RecordTurnProcessed(ctx context.Context, source, status string) {
	if o == nil || o.turnCounter == nil {
		return
	}
	o.turnCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("invocation_source", source),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordTurnDuration(ctx context.Context, duration time.Duration, source string) {
	if o == nil || o.turnDuration == nil {
		return
	}
	o.turnDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("invocation_source", source),
	))
}

// Shutdown flushes and stops the meter provider.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
