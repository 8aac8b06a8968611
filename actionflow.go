package actionflow

import (
	"context"
	"log/slog"

	"github.com/objectql/actionflow/internal/logging"
	"github.com/objectql/actionflow/internal/runtime"
	"github.com/objectql/actionflow/pkg/adapters/memory"
	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/expression"
	"github.com/objectql/actionflow/pkg/functions"
	"github.com/objectql/actionflow/pkg/ports"
	"github.com/objectql/actionflow/pkg/transaction"
)

// Engine is the high-level entry point for the actionflow library. It wires
// the function registry, expression evaluator, action runner, action engine
// and transaction manager behind a single facade.
type Engine struct {
	logger    *slog.Logger
	registry  *functions.Registry
	evaluator *expression.Evaluator
	runner    *runtime.Runner
	engine    *runtime.Engine
	manager   *transaction.Manager
	ds        ports.DataSource

	vars        map[string]any
	runnerOpts  []runtime.RunnerOption
	managerOpts []transaction.ManagerOption
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDataSource injects the storage backend used by transactions and
// batches. Defaults to an in-memory store.
func WithDataSource(ds ports.DataSource) Option {
	return func(e *Engine) { e.ds = ds }
}

// WithContext seeds the base variable scope for expressions.
func WithContext(vars map[string]any) Option {
	return func(e *Engine) { e.vars = vars }
}

// WithFunctions replaces the built-in function registry.
func WithFunctions(r *functions.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithConfirmer injects the confirmation handler.
func WithConfirmer(c ports.Confirmer) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithConfirmer(c)) }
}

// WithToaster injects the toast handler.
func WithToaster(t ports.Toaster) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithToaster(t)) }
}

// WithModalRenderer injects the modal handler.
func WithModalRenderer(m ports.ModalRenderer) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithModalRenderer(m)) }
}

// WithNavigator injects the navigation handler.
func WithNavigator(n ports.Navigator) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithNavigator(n)) }
}

// WithParamCollector injects the parameter collection handler.
func WithParamCollector(c ports.ParamCollector) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithParamCollector(c)) }
}

// WithFlowHandler injects the delegate for flow actions.
func WithFlowHandler(f ports.FlowHandler) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithFlowHandler(f)) }
}

// WithAPIClient injects the HTTP capability for api actions.
func WithAPIClient(c ports.APIClient) Option {
	return func(e *Engine) { e.runnerOpts = append(e.runnerOpts, runtime.WithAPIClient(c)) }
}

// WithIDGenerator replaces the transaction manager's identifier generator.
func WithIDGenerator(g ports.IDGenerator) Option {
	return func(e *Engine) { e.managerOpts = append(e.managerOpts, transaction.WithIDGenerator(g)) }
}

// New creates a fully wired Engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = functions.NewWithBuiltins()
	}
	if e.ds == nil {
		e.ds = memory.NewStore()
	}

	e.evaluator = expression.New(expression.NewContext(e.vars), e.registry)
	e.runner = runtime.NewRunner(e.evaluator,
		append([]runtime.RunnerOption{runtime.WithLogger(e.logger)}, e.runnerOpts...)...)
	e.engine = runtime.NewEngine(e.runner, runtime.WithEngineLogger(e.logger))
	e.manager = transaction.NewManager(e.ds,
		append([]transaction.ManagerOption{transaction.WithLogger(e.logger)}, e.managerOpts...)...)
	return e
}

// Execute runs one action definition through the runner pipeline.
func (e *Engine) Execute(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	return e.runner.Execute(ctx, def)
}

// ExecuteTransaction runs a transaction using the runner as executor.
func (e *Engine) ExecuteTransaction(ctx context.Context, cfg transaction.Config) *domain.ActionResult {
	return e.manager.ExecuteTransaction(ctx, cfg, e.runner.Execute)
}

// RegisterAction adds an action definition to the action engine.
func (e *Engine) RegisterAction(def *domain.ActionDefinition) error {
	return e.engine.RegisterAction(def)
}

// RegisterFunction adds a named function to the expression registry.
func (e *Engine) RegisterFunction(name string, fn functions.Func) {
	e.registry.Register(name, fn)
}

// RegisterCustomHandler binds a handler for custom-kind actions.
func (e *Engine) RegisterCustomHandler(name string, h ports.CustomHandler) {
	e.runner.RegisterCustomHandler(name, h)
}

// UpdateContext replaces the expression context wholesale.
func (e *Engine) UpdateContext(vars map[string]any) {
	e.runner.UpdateContext(vars)
}

// BulkOptions configures per-record bulk execution.
type BulkOptions = runtime.BulkOptions

// BulkOutcome counts per-record results of one bulk run.
type BulkOutcome = runtime.BulkOutcome

// ExecuteBulk runs a registered, bulk-eligible action once per record.
func (e *Engine) ExecuteBulk(ctx context.Context, name string, records []map[string]any, opts BulkOptions) (*BulkOutcome, error) {
	return e.engine.ExecuteBulk(ctx, name, records, opts)
}

// AddMapping binds an event name to an action with an optional condition.
func (e *Engine) AddMapping(event, action, condition string) {
	e.engine.AddMapping(event, action, condition)
}

// Dispatch executes every action mapped to the event whose condition holds,
// collecting all results.
func (e *Engine) Dispatch(ctx context.Context, event string, payload map[string]any) []*domain.ActionResult {
	return e.engine.Dispatch(ctx, event, payload)
}

// HandleShortcut executes the action bound to a key combination, or returns
// nil when none is bound.
func (e *Engine) HandleShortcut(ctx context.Context, keys string) *domain.ActionResult {
	return e.engine.HandleShortcut(ctx, keys)
}

// Runner exposes the underlying action runner.
func (e *Engine) Runner() *runtime.Runner { return e.runner }

// Actions exposes the underlying action engine (registry, mappings,
// shortcuts, bulk execution).
func (e *Engine) Actions() *runtime.Engine { return e.engine }

// Transactions exposes the underlying transaction manager.
func (e *Engine) Transactions() *transaction.Manager { return e.manager }

// Functions exposes the function registry.
func (e *Engine) Functions() *functions.Registry { return e.registry }

// Evaluator exposes the expression evaluator.
func (e *Engine) Evaluator() *expression.Evaluator { return e.evaluator }
