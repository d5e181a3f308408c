package llm

import (
	"context"
	"time"

	"triforge-backend/application/ports"
	"triforge-backend/pkg/observability"
)

// InstrumentedClient decorates a completion client with CloudWatch latency
// metrics and an X-Ray subsegment per invocation. Disabled metrics and
// tracing degrade to plain pass-through.
type InstrumentedClient struct {
	inner   ports.CompletionClient
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// Instrument wraps the given client. The original client is returned
// untouched when there is nothing to record.
func Instrument(inner ports.CompletionClient, metrics *observability.Metrics, tracer *observability.Tracer) ports.CompletionClient {
	if metrics == nil && !tracer.Enabled() {
		return inner
	}
	return &InstrumentedClient{
		inner:   inner,
		metrics: metrics,
		tracer:  tracer,
	}
}

// Complete delegates to the wrapped client, recording latency and outcome
func (c *InstrumentedClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	started := time.Now()

	var output string
	err := c.tracer.CaptureChain(ctx, opts.Chain, c.inner.Provider(), func(ctx context.Context) error {
		var innerErr error
		output, innerErr = c.inner.Complete(ctx, prompt, opts)
		return innerErr
	})

	c.metrics.RecordCompletion(ctx, c.inner.Provider(), time.Since(started), err)
	return output, err
}

// Provider returns the wrapped provider's name
func (c *InstrumentedClient) Provider() string {
	return c.inner.Provider()
}
