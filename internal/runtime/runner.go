package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/objectql/actionflow/internal/logging"
	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/expression"
	"github.com/objectql/actionflow/pkg/ports"
)

// Runner executes one declarative action through the fixed pipeline:
// guard, confirm, param collection, dispatch, post-processing.
//
// Execute never returns an error: every failure, including panics during
// dispatch, is converted into a failure ActionResult at this boundary.
type Runner struct {
	evaluator *expression.Evaluator
	logger    *slog.Logger

	confirmer ports.Confirmer
	toaster   ports.Toaster
	modal     ports.ModalRenderer
	navigator ports.Navigator
	collector ports.ParamCollector
	flow      ports.FlowHandler
	api       ports.APIClient
	custom    map[string]ports.CustomHandler
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's structured logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithConfirmer sets the confirmation handler. When unset, confirmations are
// auto-accepted (the host UI owns the real prompt).
func WithConfirmer(c ports.Confirmer) RunnerOption {
	return func(r *Runner) { r.confirmer = c }
}

// WithToaster sets the toast handler. When unset, toasts are dropped.
func WithToaster(t ports.Toaster) RunnerOption {
	return func(r *Runner) { r.toaster = t }
}

// WithModalRenderer sets the modal handler. When unset, modal actions return
// the raw schema for the host to render.
func WithModalRenderer(m ports.ModalRenderer) RunnerOption {
	return func(r *Runner) { r.modal = m }
}

// WithNavigator sets the navigation handler. When unset, navigation actions
// succeed and carry the target as a redirect signal only.
func WithNavigator(n ports.Navigator) RunnerOption {
	return func(r *Runner) { r.navigator = n }
}

// WithParamCollector sets the parameter collection handler. When unset,
// declared parameter defaults are used.
func WithParamCollector(c ports.ParamCollector) RunnerOption {
	return func(r *Runner) { r.collector = c }
}

// WithFlowHandler sets the delegate for flow actions.
func WithFlowHandler(f ports.FlowHandler) RunnerOption {
	return func(r *Runner) { r.flow = f }
}

// WithAPIClient sets the HTTP capability for api actions.
func WithAPIClient(c ports.APIClient) RunnerOption {
	return func(r *Runner) { r.api = c }
}

// NewRunner creates a runner over the given evaluator.
func NewRunner(evaluator *expression.Evaluator, opts ...RunnerOption) *Runner {
	if evaluator == nil {
		evaluator = expression.New(nil, nil)
	}
	r := &Runner{
		evaluator: evaluator,
		logger:    logging.NewNop(),
		custom:    make(map[string]ports.CustomHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterCustomHandler binds a handler for KindCustom actions referencing
// name. Registering nil removes the handler.
func (r *Runner) RegisterCustomHandler(name string, h ports.CustomHandler) {
	if h == nil {
		delete(r.custom, name)
		return
	}
	r.custom[name] = h
}

// Evaluator returns the runner's expression evaluator.
func (r *Runner) Evaluator() *expression.Evaluator { return r.evaluator }

// UpdateContext replaces the runner's variable context wholesale.
func (r *Runner) UpdateContext(vars map[string]any) {
	r.evaluator.ReplaceContext(expression.NewContext(vars))
}

// fork clones the runner over a copy-on-write child context, for executions
// that must not leak scope writes (parallel chains, bulk records).
func (r *Runner) fork() *Runner {
	clone := *r
	clone.evaluator = r.evaluator.Fork()
	return &clone
}

// Execute runs one action through the pipeline and returns its result.
func (r *Runner) Execute(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	if def == nil {
		return domain.Failf("nil action definition")
	}

	// Guard
	if !r.guardPasses(def) {
		r.logger.Debug("action guard unmet", "action", def.Name)
		return domain.Fail(domain.ErrGuardUnmet)
	}

	// Confirm
	ok, err := r.confirm(ctx, def)
	if err != nil {
		return domain.Fail(err)
	}
	if !ok {
		r.logger.Debug("action cancelled at confirmation", "action", def.Name)
		return domain.Fail(domain.ErrCancelled)
	}

	// Param collection
	params, cancelled, err := r.collectParams(ctx, def)
	if err != nil {
		return domain.Fail(err)
	}
	if cancelled {
		r.logger.Debug("action cancelled at parameter collection", "action", def.Name)
		return domain.Fail(domain.ErrCancelled)
	}
	if params != nil {
		r.evaluator.PushScope(map[string]any{"params": params})
		defer r.evaluator.PopScope()
	}

	// Dispatch (terminal-safe) then post-process, always.
	result := r.dispatch(ctx, def)
	return r.postProcess(ctx, def, result)
}

func (r *Runner) guardPasses(def *domain.ActionDefinition) bool {
	if def.Condition != "" && !r.evaluator.EvaluateCondition(def.Condition) {
		return false
	}
	if def.Disabled != nil && r.evaluator.EvaluateCondition(def.Disabled) {
		return false
	}
	return true
}

func (r *Runner) confirm(ctx context.Context, def *domain.ActionDefinition) (bool, error) {
	message := def.ConfirmMessage()
	if message == "" {
		return true, nil
	}
	rendered, err := r.evaluator.Evaluate(message)
	if err == nil {
		message = fmt.Sprintf("%v", rendered)
	}
	if r.confirmer == nil {
		r.logger.Debug("no confirmer installed; auto-accepting", "action", def.Name)
		return true, nil
	}
	accepted, err := r.confirmer.Confirm(ctx, message, def.Confirm)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return accepted, nil
}

// collectParams returns the collected values, whether the user cancelled, and
// any handler error. With no collector installed, declared defaults are used.
func (r *Runner) collectParams(ctx context.Context, def *domain.ActionDefinition) (map[string]any, bool, error) {
	if len(def.Params) == 0 {
		return nil, false, nil
	}
	if r.collector == nil {
		values := make(map[string]any, len(def.Params))
		for _, p := range def.Params {
			if p.Default != nil {
				v, err := r.evaluator.Evaluate(p.Default)
				if err != nil {
					return nil, false, err
				}
				values[p.Name] = v
			}
		}
		return values, false, nil
	}
	values, err := r.collector.Collect(ctx, def.Params)
	if err != nil {
		return nil, false, fmt.Errorf("parameter collection failed: %w", err)
	}
	if values == nil {
		return nil, true, nil
	}
	return values, false, nil
}
