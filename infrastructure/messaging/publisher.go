// Package messaging provides the in-process domain event publisher.
//
// Events are not delivered to an external bus. Publishing means two things
// here: the event is logged in full for the audit trail, and a metrics view
// of it is forwarded to CloudWatch so dashboards can track generation volume
// without parsing logs.
package messaging

import (
	"context"

	"triforge-backend/application/ports"
	"triforge-backend/domain/events"

	"go.uber.org/zap"
)

// MetricsSink receives the metrics view of published events.
// *observability.Metrics satisfies this; a nil sink disables recording.
type MetricsSink interface {
	Count(ctx context.Context, metric, label string)
	RecordStoriesUploaded(ctx context.Context, created, failed int)
}

// Publisher logs domain events and mirrors them onto the metrics sink
type Publisher struct {
	logger  *zap.Logger
	sink    MetricsSink
	enabled bool
}

// NewPublisher creates an event publisher. When enabled is false every
// publish becomes a no-op, which lets handlers fire events unconditionally.
func NewPublisher(logger *zap.Logger, sink MetricsSink, enabled bool) ports.EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		logger:  logger,
		sink:    sink,
		enabled: enabled,
	}
}

// Publish logs a single event and records its metrics
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	if !p.enabled {
		return nil
	}

	p.logger.Info("Domain event",
		zap.String("event_type", event.GetEventType()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Time("occurred_at", event.GetTimestamp()),
		zap.Any("event", event),
	)

	p.record(ctx, event)
	return nil
}

// PublishBatch logs multiple events in order
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// record maps an event onto its CloudWatch counters. Chains are used as the
// metric label where the event carries one, so failure rates can be read per
// chain rather than only in aggregate.
func (p *Publisher) record(ctx context.Context, event events.DomainEvent) {
	if p.sink == nil {
		return
	}

	switch e := event.(type) {
	case events.ArtifactGenerated:
		p.sink.Count(ctx, "ArtifactsGenerated", e.Chain)
	case events.ArtifactGenerationFailed:
		p.sink.Count(ctx, "GenerationFailures", e.Chain)
	case events.ProjectGenerated:
		p.sink.Count(ctx, "ProjectsGenerated", "pipeline")
	case events.ProjectDeleted:
		p.sink.Count(ctx, "ProjectsDeleted", "registry")
	case events.StoriesUploaded:
		p.sink.RecordStoriesUploaded(ctx, e.Created, e.Failed)
	case events.TurnRecorded:
		p.sink.Count(ctx, "TurnsRecorded", "session")
	case events.SessionCleared:
		p.sink.Count(ctx, "SessionsCleared", "session")
	}
}
