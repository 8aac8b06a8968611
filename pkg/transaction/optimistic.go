package transaction

import (
	"fmt"

	"github.com/objectql/actionflow/pkg/domain"
)

// ApplyOptimisticUpdate registers a pending UI-visible change and returns its
// identifier. The entry stays pending until exactly one of
// ConfirmOptimisticUpdate or RollbackOptimisticUpdate terminates it.
func (m *Manager) ApplyOptimisticUpdate(kind domain.OperationKind, resource, recordID string, payload, prior map[string]any) string {
	u := &domain.OptimisticUpdate{
		ID:       m.idgen.NewID(),
		Kind:     kind,
		Resource: resource,
		RecordID: recordID,
		Payload:  payload,
		Prior:    prior,
	}
	m.mu.Lock()
	m.updates[u.ID] = u
	m.order = append(m.order, u.ID)
	m.mu.Unlock()
	return u.ID
}

// ConfirmOptimisticUpdate marks a pending update as confirmed by the backend.
func (m *Manager) ConfirmOptimisticUpdate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.updates[id]
	if !ok {
		return fmt.Errorf("unknown optimistic update %q", id)
	}
	if !u.Pending() {
		return fmt.Errorf("optimistic update %q already terminated", id)
	}
	u.Confirmed = true
	return nil
}

// RollbackOptimisticUpdate marks a pending update as rolled back and returns
// the prior payload so the caller can restore its UI state.
func (m *Manager) RollbackOptimisticUpdate(id string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.updates[id]
	if !ok {
		return nil, fmt.Errorf("unknown optimistic update %q", id)
	}
	if !u.Pending() {
		return nil, fmt.Errorf("optimistic update %q already terminated", id)
	}
	u.RolledBack = true
	return u.Prior, nil
}

// PendingUpdates returns the updates that are neither confirmed nor rolled
// back, in application order.
func (m *Manager) PendingUpdates() []*domain.OptimisticUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.OptimisticUpdate
	for _, id := range m.order {
		if u := m.updates[id]; u != nil && u.Pending() {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out
}
