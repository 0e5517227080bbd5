package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OperationMetrics records counts and durations of crypto operations.
// Operation examples: "encrypt", "decrypt", "reload". The suite label carries
// the suite id that served the operation ("" when no suite applies).
type OperationMetrics interface {
	// RecordOperation records one completed operation with its status
	// ("success" or "error").
	RecordOperation(ctx context.Context, operation, suite, status string)

	// RecordDuration records the operation duration as a seconds histogram.
	RecordDuration(ctx context.Context, operation, suite string, duration time.Duration, status string)

	// RecordFallbackDepth records how many suites a decryption tried before
	// resolving. Depth 1 means the targeted fast path worked.
	RecordFallbackDepth(ctx context.Context, depth int)
}

// operationMetrics implements OperationMetrics using OpenTelemetry meters.
type operationMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	fallbackHisto    metric.Int64Histogram
}

// NewOperationMetrics creates the crypto operation meters under the given
// namespace prefix.
func NewOperationMetrics(meterProvider metric.MeterProvider, namespace string) (OperationMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of crypto operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of crypto operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	fallbackHisto, err := meter.Int64Histogram(
		fmt.Sprintf("%s_decrypt_fallback_depth", namespace),
		metric.WithDescription("Number of suites attempted per decryption"),
		metric.WithUnit("{suite}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback histogram: %w", err)
	}

	return &operationMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		fallbackHisto:    fallbackHisto,
	}, nil
}

func (o *operationMetrics) RecordOperation(ctx context.Context, operation, suite, status string) {
	o.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("suite", suite),
			attribute.String("status", status),
		),
	)
}

func (o *operationMetrics) RecordDuration(
	ctx context.Context,
	operation, suite string,
	duration time.Duration,
	status string,
) {
	o.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("suite", suite),
			attribute.String("status", status),
		),
	)
}

func (o *operationMetrics) RecordFallbackDepth(ctx context.Context, depth int) {
	o.fallbackHisto.Record(ctx, int64(depth))
}

// NoOpOperationMetrics is used when metrics are disabled.
type NoOpOperationMetrics struct{}

// NewNoOpOperationMetrics creates a no-op OperationMetrics implementation.
func NewNoOpOperationMetrics() OperationMetrics {
	return &NoOpOperationMetrics{}
}

func (n *NoOpOperationMetrics) RecordOperation(ctx context.Context, operation, suite, status string) {
}

func (n *NoOpOperationMetrics) RecordDuration(
	ctx context.Context,
	operation, suite string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpOperationMetrics) RecordFallbackDepth(ctx context.Context, depth int) {
}
