// README: OpenTelemetry metrics exported through a private Prometheus registry.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Request outcomes recorded on the suggestions counter.
const (
	StatusOK             = "ok"
	StatusInvalidRequest = "invalid_request"
	StatusError          = "error"
)

type Metrics struct {
	registry      *prometheus.Registry
	meterProvider *metric.MeterProvider
	requests      otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

func New(serviceName string) (*Metrics, error) {
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("observability: prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	requests, err := meter.Int64Counter(
		"suggestions.requests",
		otelmetric.WithDescription("Suggestion requests by outcome"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"suggestions.duration",
		otelmetric.WithDescription("Suggestion request latency"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		registry:      reg,
		meterProvider: provider,
		requests:      requests,
		duration:      duration,
	}, nil
}

// RecordSuggestion is safe on a nil receiver.
func (m *Metrics) RecordSuggestion(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(d.Microseconds())/1000, attrs)
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.meterProvider == nil {
		return nil
	}
	return m.meterProvider.Shutdown(ctx)
}
