package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	pkgerrors "triforge-backend/pkg/errors"
)

// ErrHandlerNotFound is returned when no handler is registered for a query
var ErrHandlerNotFound = errors.New("no handler registered for query type")

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc adapts a function to the QueryHandler interface
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// HandlerFor adapts a typed handling function to the bus contract, erasing
// the result type at the boundary. Callers assert the result back; the REST
// layer owns that assertion per route.
func HandlerFor[T Query, R any](handle func(ctx context.Context, query T) (R, error)) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(T)
		if !ok {
			return nil, fmt.Errorf("query %T does not match registered type", query)
		}
		return handle(ctx, typed)
	})
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]QueryHandler
}

// NewQueryBus creates a new query bus
func NewQueryBus() *QueryBus {
	return &QueryBus{handlers: make(map[reflect.Type]QueryHandler)}
}

// Register binds a handler to the concrete type of queryType
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	t := reflect.TypeOf(queryType)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.handlers[t]; dup {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}
	b.handlers[t] = handler
	return nil
}

// Ask validates the query and dispatches it to its handler
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	b.mu.RLock()
	handler, ok := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, query)
	}
	return handler.Handle(ctx, query)
}

// Metrics is the instrumentation surface for query execution. The label is
// the query type name so each query gets its own metric dimension.
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer measures one in-flight observation
type Timer interface {
	Stop()
}

// MetricsMiddleware instruments query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates metrics instrumentation for query handlers
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Wrap instruments a handler with duration and outcome counters
func (m *MetricsMiddleware) Wrap(handler QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		name := reflect.TypeOf(query).Name()
		timer := m.metrics.StartTimer("query_duration", name)
		defer timer.Stop()

		m.metrics.Increment("query_count", name)
		result, err := handler.Handle(ctx, query)
		if err != nil {
			m.metrics.Increment("query_errors", name)
		} else {
			m.metrics.Increment("query_success", name)
		}
		return result, err
	})
}
