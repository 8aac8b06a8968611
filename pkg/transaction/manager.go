package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/objectql/actionflow/internal/logging"
	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/ports"
)

// Executor runs one action on behalf of a transaction. The runner's Execute
// satisfies this signature.
type Executor func(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult

// Config describes one transaction.
type Config struct {
	Actions []*domain.ActionDefinition

	// RetryOnConflict enables retry with exponential backoff for actions
	// that fail or panic. Without it, a single attempt is final.
	RetryOnConflict bool
	// MaxRetries bounds the number of retries per action (attempts are
	// MaxRetries + 1 including the first).
	MaxRetries int
	// RetryDelay is the base backoff; the delay before retry n is
	// RetryDelay * 2^(n-1), strictly increasing.
	RetryDelay time.Duration
}

// ProgressListener observes transaction progress snapshots. Called
// synchronously; it must not mutate manager state.
type ProgressListener func(domain.ProgressEvent)

// sleepFunc suspends for d or until ctx is done. Injected for tests.
type sleepFunc func(ctx context.Context, d time.Duration) error

// Manager orchestrates multi-action transactions with retry and rollback,
// tracks optimistic UI updates, and drives batch data operations.
//
// A manager instance exclusively owns its operation log and optimistic-update
// table. Callers serialize access to one instance, or use one instance per
// logical transaction.
type Manager struct {
	ds     ports.DataSource
	idgen  ports.IDGenerator
	logger *slog.Logger
	sleep  sleepFunc

	mu        sync.Mutex
	ops       []domain.Operation
	updates   map[string]*domain.OptimisticUpdate
	order     []string // update insertion order, for stable PendingUpdates
	listeners []ProgressListener
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's structured logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithIDGenerator replaces the default UUID generator, keeping identifier
// generation deterministic in tests.
func WithIDGenerator(g ports.IDGenerator) ManagerOption {
	return func(m *Manager) { m.idgen = g }
}

// withSleep replaces the backoff sleep. Test seam.
func withSleep(s sleepFunc) ManagerOption {
	return func(m *Manager) { m.sleep = s }
}

// NewManager creates a transaction manager over a DataSource.
func NewManager(ds ports.DataSource, opts ...ManagerOption) *Manager {
	m := &Manager{
		ds:      ds,
		idgen:   ports.IDGeneratorFunc(uuid.NewString),
		logger:  logging.NewNop(),
		updates: make(map[string]*domain.OptimisticUpdate),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AddProgressListener registers a listener for transaction progress events.
func (m *Manager) AddProgressListener(fn ProgressListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(ev domain.ProgressEvent) {
	m.mu.Lock()
	listeners := make([]ProgressListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func progress(total, completed, failed int, current string) domain.ProgressEvent {
	ev := domain.ProgressEvent{Total: total, Completed: completed, Failed: failed, Current: current}
	if total > 0 {
		ev.Percent = float64(completed) / float64(total) * 100
	}
	return ev
}

// ExecuteTransaction runs the configured actions sequentially. The first
// action that fails after exhausting retries triggers a rollback of all
// recorded operations and yields a failure result tagged RolledBack. On
// success the operation log is cleared without rollback.
func (m *Manager) ExecuteTransaction(ctx context.Context, cfg Config, exec Executor) *domain.ActionResult {
	total := len(cfg.Actions)
	completed := 0

	data := make([]any, 0, total)
	for _, action := range cfg.Actions {
		m.emit(progress(total, completed, 0, action.Name))

		result := m.attempt(ctx, cfg, action, exec)
		if !result.Success {
			m.emit(progress(total, completed, 1, action.Name))
			m.logger.Warn("transaction action failed; rolling back",
				"action", action.Name, "err", result.Err)
			m.rollback(ctx)
			return &domain.ActionResult{Success: false, Err: result.Err, RolledBack: true}
		}
		completed++
		data = append(data, result.Data)
		m.emit(progress(total, completed, 0, action.Name))
	}

	m.mu.Lock()
	m.ops = nil
	m.mu.Unlock()
	return domain.Succeed(data)
}

// attempt runs one action with up to MaxRetries retries when
// RetryOnConflict is set. The backoff before retry n is
// RetryDelay * 2^(n-1). A cancelled context ends retrying immediately.
func (m *Manager) attempt(ctx context.Context, cfg Config, action *domain.ActionDefinition, exec Executor) *domain.ActionResult {
	attempts := 1
	if cfg.RetryOnConflict {
		attempts = cfg.MaxRetries + 1
	}

	var result *domain.ActionResult
	for n := 0; n < attempts; n++ {
		if n > 0 {
			delay := cfg.RetryDelay * (1 << (n - 1))
			m.logger.Debug("retrying action", "action", action.Name, "attempt", n+1, "delay", delay)
			if err := m.sleep(ctx, delay); err != nil {
				return domain.Fail(err)
			}
		}
		result = safeExec(ctx, action, exec)
		if result.Success {
			return result
		}
	}
	return result
}

// safeExec converts a panicking executor into a failure result so a broken
// action cannot abort the transaction bookkeeping.
func safeExec(ctx context.Context, action *domain.ActionDefinition, exec Executor) (result *domain.ActionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = domain.Failf(fmt.Sprintf("action panicked: %v", rec))
		}
	}()
	result = exec(ctx, action)
	if result == nil {
		result = &domain.ActionResult{Success: true}
	}
	return result
}
