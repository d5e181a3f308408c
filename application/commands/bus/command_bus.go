package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	pkgerrors "triforge-backend/pkg/errors"
)

// ErrHandlerNotFound is returned when no handler is registered for a command
var ErrHandlerNotFound = errors.New("no handler registered for command type")

// Command represents a command that changes state
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc adapts a function to the CommandHandler interface
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// HandlerFor adapts a typed handling function to the bus contract. Dispatch
// is by concrete type, so the assertion only fails when a registration was
// wired against the wrong command.
func HandlerFor[T Command](handle func(ctx context.Context, cmd T) error) CommandHandler {
	return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(T)
		if !ok {
			return fmt.Errorf("command %T does not match registered type", cmd)
		}
		return handle(ctx, typed)
	})
}

// CommandBus dispatches commands to their handlers. The generation and
// modification flows call their typed handlers directly because they return
// payloads; the bus carries the effect-only commands (session clear, project
// delete) so middleware applies to them uniformly.
type CommandBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]CommandHandler
}

// NewCommandBus creates a new command bus
func NewCommandBus() *CommandBus {
	return &CommandBus{handlers: make(map[reflect.Type]CommandHandler)}
}

// Register binds a handler to the concrete type of cmdType. Registering
// the same type twice is a wiring bug and fails loudly.
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	t := reflect.TypeOf(cmdType)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.handlers[t]; dup {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}
	b.handlers[t] = handler
	return nil
}

// Send validates the command and dispatches it. Validation failures surface
// as typed client errors so the transport maps them to 400 responses.
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	handler, err := b.lookup(cmd)
	if err != nil {
		return err
	}
	return handler.Handle(ctx, cmd)
}

func (b *CommandBus) lookup(cmd Command) (CommandHandler, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handler, ok := b.handlers[reflect.TypeOf(cmd)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, cmd)
	}
	return handler, nil
}

// Middleware wraps a handler with cross-cutting behavior
type Middleware func(next CommandHandler) CommandHandler

// Pipeline applies a fixed middleware stack to handlers at registration
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a pipeline applying the given middleware in order
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{middlewares: middlewares}
}

// Execute wraps handler so the first middleware sees the command first
func (p *Pipeline) Execute(handler CommandHandler) CommandHandler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}

// Logger is the minimal logging surface the middleware needs
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// LoggingMiddleware logs each command with its outcome
func LoggingMiddleware(logger Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			name := reflect.TypeOf(cmd).Name()
			logger.Info("Executing command", "type", name)

			if err := next.Handle(ctx, cmd); err != nil {
				logger.Error("Command failed", "type", name, "error", err)
				return err
			}

			logger.Info("Command succeeded", "type", name)
			return nil
		})
	}
}
