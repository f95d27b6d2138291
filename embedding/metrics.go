package embedding

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"

// instrumented records encode duration, batch size and errors through the
// global OpenTelemetry meter provider.
type instrumented struct {
	Encoder
	attrs     metric.MeasurementOption
	duration  metric.Float64Histogram
	batchSize metric.Int64Histogram
	errors    metric.Int64Counter
}

// Instrument wraps enc with OpenTelemetry metrics. Instrument creation
// failures are logged and the affected instrument is skipped.
func Instrument(enc Encoder, provider string, logger *zap.Logger) Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	meter := otel.Meter(instrumentationName)
	m := &instrumented{
		Encoder: enc,
		attrs: metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("fingerprint", enc.Fingerprint()),
		),
	}
	var err error
	m.duration, err = meter.Float64Histogram(
		"recipevec.embedding.duration_seconds",
		metric.WithDescription("Duration of embedding calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		logger.Warn("failed to create duration histogram", zap.Error(err))
	}
	m.batchSize, err = meter.Int64Histogram(
		"recipevec.embedding.batch_size",
		metric.WithDescription("Number of texts per embedding call"),
		metric.WithUnit("{text}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 25, 50, 100, 250),
	)
	if err != nil {
		logger.Warn("failed to create batch size histogram", zap.Error(err))
	}
	m.errors, err = meter.Int64Counter(
		"recipevec.embedding.errors_total",
		metric.WithDescription("Number of failed embedding calls"),
	)
	if err != nil {
		logger.Warn("failed to create error counter", zap.Error(err))
	}
	return m
}

func (m *instrumented) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := m.Encoder.Encode(ctx, texts)
	if m.duration != nil {
		m.duration.Record(ctx, time.Since(start).Seconds(), m.attrs)
	}
	if m.batchSize != nil {
		m.batchSize.Record(ctx, int64(len(texts)), m.attrs)
	}
	if err != nil && m.errors != nil {
		m.errors.Add(ctx, 1, m.attrs)
	}
	return vecs, err
}
