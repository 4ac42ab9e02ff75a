package observability_test

import (
	"context"
	"errors"
	"testing"

	"graphdb/internal/observability"

	"github.com/stretchr/testify/assert"
)

func TestTracerDisabledIsPassthrough(t *testing.T) {
	tracer := observability.NewTracer("graphdb", false)

	ctx, done := tracer.Segment(context.Background(), "dispatch")
	done(nil)
	assert.NotNil(t, ctx)

	called := false
	err := tracer.Subsegment(ctx, "lookup", func(context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	// Annotate must not panic without an open segment.
	tracer.Annotate(ctx, "node_id", "abc")
}

func TestTracerDisabledPropagatesSubsegmentError(t *testing.T) {
	tracer := observability.NewTracer("graphdb", false)
	want := errors.New("boom")

	got := tracer.Subsegment(context.Background(), "lookup", func(context.Context) error {
		return want
	})
	assert.Equal(t, want, got)
}
