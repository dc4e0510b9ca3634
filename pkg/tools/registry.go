// Package tools holds the tool registry: the set of named, schema-described
// operations the server exposes, and the dispatch path that validates
// arguments, runs a handler and shapes the outcome for the caller.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/observability"
)

// Handler executes one tool invocation with validated arguments
type Handler func(ctx context.Context, args Arguments) (any, error)

// Annotations are behavioural hints forwarded to protocol clients
type Annotations struct {
	Title    string
	ReadOnly bool
	// OpenWorld marks tools that reach outside the process
	OpenWorld bool
}

// Definition declares a tool
type Definition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Categories  []string
	Annotations Annotations
	Handler     Handler
}

type entry struct {
	def    Definition
	schema *inputSchema
}

// Registry maps tool names to definitions. Tools are registered at startup;
// after Seal the registry is read-only and safe for concurrent dispatch.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]*entry
	order     []string
	sealed    bool
	logger    logging.Logger
	telemetry *observability.Telemetry
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger used for invocation logging
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTelemetry sets the metrics and tracing providers
func WithTelemetry(t *observability.Telemetry) Option {
	return func(r *Registry) {
		r.telemetry = t
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tools:     make(map[string]*entry),
		logger:    logging.Nop(),
		telemetry: observability.Disabled(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithFields(logging.String("component", "registry"))
	return r
}

// Register adds a tool. It fails with a duplicate_tool error when the name is
// taken and refuses new tools once the registry is sealed.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return hubErrors.InvalidArgument("tool name must not be empty")
	}
	if def.Handler == nil {
		return hubErrors.InvalidArgumentf("tool '%s' has no handler", def.Name)
	}

	schema, err := compileSchema(def.InputSchema)
	if err != nil {
		return hubErrors.InvalidSchema(def.Name, err)
	}
	if len(def.InputSchema) == 0 {
		def.InputSchema = EmptySchema
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return hubErrors.RegistrySealed(def.Name)
	}
	if _, exists := r.tools[def.Name]; exists {
		return hubErrors.DuplicateTool(def.Name)
	}

	r.tools[def.Name] = &entry{def: def, schema: schema}
	r.order = append(r.order, def.Name)

	r.logger.Debug("Tool registered", logging.String("tool", def.Name))
	return nil
}

// Seal freezes the registry
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// List returns the registered definitions in registration order
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Invoke validates args against the tool's schema and runs its handler.
// Handler failures that are not already typed errors, including panics,
// come back as handler_error carrying the tool name.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (result any, err error) {
	invocationID := logging.InvocationIDFromContext(ctx)
	if invocationID == "" {
		invocationID = uuid.New().String()
		ctx = logging.ContextWithInvocationID(ctx, invocationID)
	}

	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()

	metricName := name
	if !ok {
		metricName = "unknown"
	}

	ctx, span := r.telemetry.Tracing.StartToolSpan(ctx, metricName, invocationID)
	defer span.End()

	start := time.Now()
	log := r.logger.WithContext(ctx).WithFields(logging.String("tool", name))

	defer func() {
		duration := time.Since(start)
		status := "ok"
		if err != nil {
			kind := hubErrors.KindOf(err)
			status = string(kind)

			if hubErr, ok := hubErrors.AsMCPError(err); ok {
				err = hubErr.WithContext(&hubErrors.Context{
					InvocationID: invocationID,
					Tool:         name,
					Timestamp:    time.Now(),
					Component:    "registry",
					Operation:    "invoke",
				})
			}

			r.telemetry.Tracing.RecordError(ctx, err)
			r.telemetry.Tracing.SetAttributes(ctx, attribute.String("hubscout.error_kind", status))
			r.telemetry.Metrics.RecordError(ctx, status)
			logFailure(log.WithError(err).WithFields(logging.Duration("duration", duration)), kind)
		} else {
			log.Info("Tool call completed", logging.Duration("duration", duration))
		}
		r.telemetry.Metrics.RecordToolCall(ctx, metricName, status, duration)
	}()

	if !ok {
		return nil, hubErrors.ToolNotFound(name)
	}

	prepared := e.schema.prepare(args)
	if err := e.schema.validate(prepared); err != nil {
		return nil, err
	}

	return r.call(ctx, e.def, Arguments(prepared))
}

func (r *Registry) call(ctx context.Context, def Definition, args Arguments) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithContext(ctx).Error("Tool handler panicked",
				logging.String("tool", def.Name),
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
			result = nil
			err = hubErrors.Handler(def.Name, fmt.Errorf("panic: %v", rec))
		}
	}()

	result, err = def.Handler(ctx, args)
	if err != nil && !hubErrors.IsMCPError(err) {
		err = hubErrors.Handler(def.Name, err)
	}
	return result, err
}

// caller mistakes are logged at warn, everything else at error
func logFailure(log logging.Logger, kind hubErrors.Kind) {
	switch kind {
	case hubErrors.KindInvalidArgument, hubErrors.KindInvalidQuery, hubErrors.KindNotFound:
		log.Warn("Tool call rejected")
	default:
		log.Error("Tool call failed")
	}
}
