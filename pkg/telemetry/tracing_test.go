package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestClampRatio(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}
	for _, tc := range cases {
		if got := clampRatio(tc.in); got != tc.want {
			t.Fatalf("clampRatio(%v): want %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestSampler_FollowsParent(t *testing.T) {
	t.Parallel()

	// Доля 0: корневые трассы не семплируются, но семплированный родитель сохраняется.
	provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(Sampler(0)))
	tracer := provider.Tracer("test")

	_, root := tracer.Start(context.Background(), "root")
	if root.SpanContext().IsSampled() {
		t.Fatalf("root span must not be sampled with ratio 0")
	}
	root.End()

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), parent)
	_, child := tracer.Start(ctx, "child")
	if !child.SpanContext().IsSampled() {
		t.Fatalf("child of sampled parent must be sampled")
	}
	child.End()
}

func TestSetupTracing_InstallsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := SetupTracing(context.Background(), "notify-gateway-test", "", 1)
	require.NoError(t, err)

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("global provider must be the sdk provider, got %T", otel.GetTracerProvider())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, shutdown(ctx))
}

func TestNoopShutdown(t *testing.T) {
	t.Parallel()
	require.NoError(t, NoopShutdown(context.Background()))
}
