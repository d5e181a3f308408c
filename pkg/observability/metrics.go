package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes application metrics to CloudWatch under a per-environment
// namespace. A nil client disables publishing entirely, so handlers can call
// the recorders unconditionally.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a metrics recorder for the given environment
func NewMetrics(environment string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	if environment == "" {
		environment = "development"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metrics{
		namespace: fmt.Sprintf("TriForge/%s", environment),
		client:    client,
		logger:    logger,
	}
}

func (m *Metrics) enabled() bool {
	return m != nil && m.client != nil
}

// Count increments a named counter with a single Operation dimension
func (m *Metrics) Count(ctx context.Context, metric, label string) {
	if !m.enabled() {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: operationDimension(label),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	})
}

// Timing records an elapsed duration in milliseconds
func (m *Metrics) Timing(ctx context.Context, metric, label string, elapsed time.Duration) {
	if !m.enabled() {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: operationDimension(label),
		Value:      aws.Float64(float64(elapsed.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(time.Now()),
	})
}

// RecordCompletion records one model invocation: its latency and a count,
// both split by provider and outcome
func (m *Metrics) RecordCompletion(ctx context.Context, provider string, elapsed time.Duration, err error) {
	if !m.enabled() {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	dimensions := []types.Dimension{
		{Name: aws.String("Provider"), Value: aws.String(provider)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}

	now := time.Now()
	m.put(ctx,
		types.MetricDatum{
			MetricName: aws.String("CompletionLatency"),
			Dimensions: dimensions,
			Value:      aws.Float64(float64(elapsed.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
		types.MetricDatum{
			MetricName: aws.String("CompletionCount"),
			Dimensions: dimensions,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
	)
}

// RecordStoriesUploaded records the outcome of one Jira upload batch
func (m *Metrics) RecordStoriesUploaded(ctx context.Context, created, failed int) {
	if !m.enabled() {
		return
	}

	now := time.Now()
	m.put(ctx,
		types.MetricDatum{
			MetricName: aws.String("JiraStoriesCreated"),
			Value:      aws.Float64(float64(created)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
		types.MetricDatum{
			MetricName: aws.String("JiraStoriesFailed"),
			Value:      aws.Float64(float64(failed)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
	)
}

// put ships metric data best effort; a publish failure never surfaces to the
// caller
func (m *Metrics) put(ctx context.Context, data ...types.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to publish metrics",
			zap.String("namespace", m.namespace),
			zap.Error(err),
		)
	}
}

func operationDimension(label string) []types.Dimension {
	return []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(label)},
	}
}
