package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/objectql/actionflow/internal/logging"
	"github.com/objectql/actionflow/pkg/domain"
)

// Engine registers and organizes many actions: by UI location, keyboard
// shortcut and priority. It maps named events to actions and drives bulk
// per-record execution through the shared Runner.
type Engine struct {
	mu        sync.RWMutex
	runner    *Runner
	logger    *slog.Logger
	actions   map[string]*domain.ActionDefinition
	shortcuts map[string]string // normalized shortcut -> action name
	mappings  []eventMapping
}

type eventMapping struct {
	event     string
	action    string
	condition string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the engine's structured logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine over the given runner.
func NewEngine(runner *Runner, opts ...EngineOption) *Engine {
	e := &Engine{
		runner:    runner,
		logger:    logging.NewNop(),
		actions:   make(map[string]*domain.ActionDefinition),
		shortcuts: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Runner returns the engine's action runner.
func (e *Engine) Runner() *Runner { return e.runner }

// NormalizeShortcut canonicalizes a key combination by lower-casing and
// sorting the +-separated parts, so "Ctrl+S" and "s+ctrl" collide.
func NormalizeShortcut(keys string) string {
	parts := strings.Split(strings.ToLower(keys), "+")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	sort.Strings(trimmed)
	return strings.Join(trimmed, "+")
}

// RegisterAction adds an action to the registry. An existing action with the
// same name is replaced; its shortcut binding moves with it.
func (e *Engine) RegisterAction(def *domain.ActionDefinition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("action registration requires a named definition")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if old, ok := e.actions[def.Name]; ok && old.Shortcut != "" {
		delete(e.shortcuts, NormalizeShortcut(old.Shortcut))
	}
	e.actions[def.Name] = def
	if def.Shortcut != "" {
		e.shortcuts[NormalizeShortcut(def.Shortcut)] = def.Name
	}
	e.logger.Debug("action registered", "action", def.Name, "kind", def.Kind)
	return nil
}

// UnregisterAction removes an action and its shortcut binding. Removing an
// unknown name is a no-op.
func (e *Engine) UnregisterAction(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if def, ok := e.actions[name]; ok && def.Shortcut != "" {
		delete(e.shortcuts, NormalizeShortcut(def.Shortcut))
	}
	delete(e.actions, name)
}

// Action returns a registered definition by name.
func (e *Engine) Action(name string) (*domain.ActionDefinition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	def, ok := e.actions[name]
	return def, ok
}

func priorityOf(def *domain.ActionDefinition) int {
	if def.Priority == 0 {
		return domain.DefaultPriority
	}
	return def.Priority
}

// sortByPriority orders ascending by priority, then by name for stability.
func sortByPriority(defs []*domain.ActionDefinition) {
	sort.SliceStable(defs, func(i, j int) bool {
		pi, pj := priorityOf(defs[i]), priorityOf(defs[j])
		if pi != pj {
			return pi < pj
		}
		return defs[i].Name < defs[j].Name
	})
}

// ActionsForLocation returns the priority-sorted actions registered for a UI
// location.
func (e *Engine) ActionsForLocation(location string) []*domain.ActionDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []*domain.ActionDefinition
	for _, def := range e.actions {
		for _, loc := range def.Locations {
			if loc == location {
				out = append(out, def)
				break
			}
		}
	}
	sortByPriority(out)
	return out
}

// BulkActions returns the priority-sorted bulk-eligible actions.
func (e *Engine) BulkActions() []*domain.ActionDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []*domain.ActionDefinition
	for _, def := range e.actions {
		if def.Bulk {
			out = append(out, def)
		}
	}
	sortByPriority(out)
	return out
}

// AddMapping binds an event name to an action, with an optional condition
// evaluated against the event payload at dispatch time.
func (e *Engine) AddMapping(event, action, condition string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mappings = append(e.mappings, eventMapping{event: event, action: action, condition: condition})
}

// Dispatch finds all mappings for the event, evaluates each condition, and
// executes every matching action. Independent mappings never short-circuit
// each other; all results are collected.
func (e *Engine) Dispatch(ctx context.Context, event string, payload map[string]any) []*domain.ActionResult {
	e.mu.RLock()
	matches := make([]eventMapping, 0)
	for _, m := range e.mappings {
		if m.event == event {
			matches = append(matches, m)
		}
	}
	e.mu.RUnlock()

	var results []*domain.ActionResult
	for _, m := range matches {
		branch := e.runner.fork()
		branch.Evaluator().PushScope(map[string]any{"event": payload})

		if m.condition != "" && !branch.Evaluator().EvaluateCondition(m.condition) {
			continue
		}
		def, ok := e.Action(m.action)
		if !ok {
			e.logger.Warn("event mapping names unknown action", "event", event, "action", m.action)
			results = append(results, domain.Fail(domain.ErrUnknownAction))
			continue
		}
		results = append(results, branch.Execute(ctx, def))
	}
	return results
}

// HandleShortcut normalizes keys and executes the bound action, or returns
// nil when no action is bound.
func (e *Engine) HandleShortcut(ctx context.Context, keys string) *domain.ActionResult {
	e.mu.RLock()
	name, ok := e.shortcuts[NormalizeShortcut(keys)]
	e.mu.RUnlock()
	if !ok {
		return nil
	}
	def, ok := e.Action(name)
	if !ok {
		return nil
	}
	return e.runner.Execute(ctx, def)
}
