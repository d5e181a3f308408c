package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps AWS X-Ray for the API surface and the model invocations
// behind it. When disabled every method degrades to calling through, so the
// call sites never branch on configuration.
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a tracer for the named service
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{
		serviceName: serviceName,
		enabled:     enabled,
	}
}

// Enabled reports whether segments are being recorded
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// StartRequest opens a root segment for an inbound request
func (t *Tracer) StartRequest(ctx context.Context, name string) (context.Context, func(error)) {
	if !t.Enabled() {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSegment(ctx, t.serviceName+"."+name)
	return ctx, func(err error) { seg.Close(err) }
}

// CaptureChain traces one chain invocation as a subsegment annotated with
// the chain and provider, so generations can be filtered in the console
func (t *Tracer) CaptureChain(ctx context.Context, chain, provider string, fn func(context.Context) error) error {
	if !t.Enabled() {
		return fn(ctx)
	}
	return xray.Capture(ctx, "chain."+chain, func(ctx context.Context) error {
		_ = xray.AddAnnotation(ctx, "chain", chain)
		_ = xray.AddAnnotation(ctx, "provider", provider)
		return fn(ctx)
	})
}

// Capture traces an arbitrary unit of work as a subsegment
func (t *Tracer) Capture(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.Enabled() {
		return fn(ctx)
	}
	return xray.Capture(ctx, name, fn)
}

// AddAnnotation attaches an indexed annotation to the active segment
func (t *Tracer) AddAnnotation(ctx context.Context, key, value string) {
	if !t.Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
