package quickentry

import (
	"bookkeeper/pkg/metrics"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "bookkeeper/internal/quickentry"

// telemetry holds the instruments of the pipeline. They report to the global
// otel providers, which are no-ops until the server installs real ones.
type telemetry struct {
	tracer     trace.Tracer
	outcomes   metric.Int64Counter
	allocation metric.Float64Histogram
}

func newTelemetry() (telemetry, error) {
	meter := otel.Meter(instrumentationName)

	outcomes, err := meter.Int64Counter("quickentry.outcomes",
		metric.WithDescription("Quick entries handled, by operation and outcome kind"))
	if err != nil {
		return telemetry{}, fmt.Errorf("could not create outcomes counter: %w", err)
	}

	allocation, err := meter.Float64Histogram("quickentry.allocation.duration",
		metric.WithDescription("Time spent allocating a bookkeeping id"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return telemetry{}, fmt.Errorf("could not create allocation histogram: %w", err)
	}

	return telemetry{
		tracer:     otel.Tracer(instrumentationName),
		outcomes:   outcomes,
		allocation: allocation,
	}, nil
}
