package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps aws-xray-sdk-go segments around command dispatch and
// store calls, following backend2/pkg/observability/tracing.go's
// service-named segment/subsegment pattern.
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer returns a Tracer. When enabled is false every method is a
// passthrough, so call sites don't need a separate disabled branch.
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{serviceName: serviceName, enabled: enabled}
}

// Segment starts a root segment for one inbound connection or Lambda
// invocation.
func (t *Tracer) Segment(ctx context.Context, name string) (context.Context, func(error)) {
	if !t.enabled {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
	return ctx, func(err error) {
		if err != nil {
			seg.AddError(err)
		}
		seg.Close(nil)
	}
}

// Subsegment wraps one traced unit of work, e.g. a single dispatched
// command, inside an already-open segment.
func (t *Tracer) Subsegment(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	ctx, seg := xray.BeginSubsegment(ctx, name)
	defer seg.Close(nil)

	err := fn(ctx)
	if err != nil {
		seg.AddError(err)
	}
	return err
}

// Annotate adds an indexed annotation to the segment active in ctx,
// a no-op when tracing is disabled or no segment is open.
func (t *Tracer) Annotate(ctx context.Context, key, value string) {
	if !t.enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
