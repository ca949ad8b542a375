package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info("discarded")
}

func TestL_EnrichesFromContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	ctx := WithContext(context.Background(), zap.New(core))
	ctx = trace.ContextWithSpanContext(ctx, spanCtx)
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithIdentity(ctx, "owner@shop.ng")

	L(ctx).Info("loaded")

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "owner@shop.ng", fields["identity"])
}

func TestL_WithoutExtras(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).Info("plain")

	require.Len(t, recorded.All(), 1)
	assert.Empty(t, recorded.All()[0].ContextMap())
	assert.Equal(t, "", GetRequestID(ctx))
	assert.Equal(t, "", GetIdentity(ctx))
}

func TestOr(t *testing.T) {
	fallbackCore, fallbackLogs := observer.New(zapcore.InfoLevel)
	ctxCore, ctxLogs := observer.New(zapcore.InfoLevel)
	fallback := zap.New(fallbackCore)

	ctx := WithIdentity(context.Background(), "owner@shop.ng")
	Or(ctx, fallback).Info("from fallback")
	require.Len(t, fallbackLogs.All(), 1)
	assert.Equal(t, "owner@shop.ng", fallbackLogs.All()[0].ContextMap()["identity"])

	ctx = WithContext(ctx, zap.New(ctxCore))
	Or(ctx, fallback).Info("from context")
	assert.Len(t, ctxLogs.All(), 1)
	assert.Len(t, fallbackLogs.All(), 1)
}
