package omp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/baxromumarov/omp"
)

func TestRegionSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rt := newRuntime(t)
	r := rt.Region(3)
	err := r.Run(context.Background(), func(ctx context.Context, h *omp.Handle) error {
		if h.WorkerIndex() == 2 {
			return errors.New("bad block")
		}
		return nil
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	var region sdktrace.ReadOnlySpan
	var workers []sdktrace.ReadOnlySpan
	for _, s := range spans {
		switch s.Name() {
		case "omp.region":
			region = s
		case "omp.worker":
			workers = append(workers, s)
		}
	}
	require.NotNil(t, region)
	require.Len(t, workers, 2)

	assert.Contains(t, region.Attributes(), attribute.String("omp.region.id", r.ID()))
	assert.Contains(t, region.Attributes(), attribute.Int("omp.region.workers", 3))
	assert.Contains(t, region.Attributes(), attribute.Int("omp.region.spawned", 2))
	assert.Equal(t, codes.Ok, region.Status().Code)

	failed := 0
	for _, w := range workers {
		assert.Equal(t, region.SpanContext().SpanID(), w.Parent().SpanID())
		if w.Status().Code == codes.Error {
			failed++
			assert.Contains(t, w.Attributes(), attribute.Int("omp.worker.index", 2))
		}
	}
	assert.Equal(t, 1, failed)
}
