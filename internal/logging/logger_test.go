package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Level = zapcore.DebugLevel

	logger, err := NewLoggerTo(cfg, &buf)
	require.NoError(t, err)

	ctx := WithRequestID(context.Background(), "req-1")
	logger.Named("store").Info(ctx, "store loaded", zap.Int("documents", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "store loaded", entry["msg"])
	assert.Equal(t, "store", entry["logger"])
	assert.Equal(t, "recipevec", entry["service"])
	assert.Equal(t, "req-1", entry["request.id"])
	assert.EqualValues(t, 3, entry["documents"])
}

func TestConfigValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())

	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestContextFieldsTrace(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	fields := ContextFields(ctx)
	require.Len(t, fields, 2)
	assert.Equal(t, "trace_id", fields[0].Key)
	assert.Equal(t, traceID.String(), fields[0].String)
	assert.Empty(t, ContextFields(context.Background()))
}

func TestTestLogger(t *testing.T) {
	logger := NewTestLogger()
	logger.Warn(context.Background(), "skipping recipe", zap.String("file", "a.txt"))
	logger.AssertLogged(t, zapcore.WarnLevel, "skipping")
	logger.AssertField(t, "skipping recipe", "file", "a.txt")
	assert.Equal(t, 1, logger.FilterMessage("recipe").Len())
}
