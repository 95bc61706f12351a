// Package telemetry wires OpenTelemetry tracing and the outcome metrics.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const instrumentationName = "github.com/Skufu/OTCAdvisor"

// Metrics holds the recommendation instruments.
type Metrics struct {
	Outcomes          metric.Int64Counter
	InferenceDuration metric.Float64Histogram
}

// Setup installs an OTLP gRPC trace exporter and returns its shutdown func.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// InitMetrics creates the instruments on the global meter provider. Without
// a configured provider they are no-ops.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	outcomes, err := meter.Int64Counter(
		"otc.recommendation.outcomes",
		metric.WithDescription("Form submissions by outcome kind"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"otc.inference.duration",
		metric.WithDescription("Time spent ranking and estimating one submission"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{Outcomes: outcomes, InferenceDuration: duration}, nil
}

// RecordOutcome counts one submission. Safe on a nil receiver.
func (m *Metrics) RecordOutcome(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.Outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", kind)))
}

// RecordInference records model time in milliseconds. Safe on a nil receiver.
func (m *Metrics) RecordInference(ctx context.Context, ms float64) {
	if m == nil {
		return
	}
	m.InferenceDuration.Record(ctx, ms)
}
