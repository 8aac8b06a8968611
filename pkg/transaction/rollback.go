package transaction

import (
	"context"

	"github.com/objectql/actionflow/pkg/domain"
)

// RecordOperation appends a committed side effect to the transaction's
// operation log. Executors call it (directly or through the Create/Update/
// Delete helpers) so rollback knows what to undo.
func (m *Manager) RecordOperation(kind domain.OperationKind, resource, recordID string, payload, prior map[string]any) string {
	op := domain.Operation{
		ID:       m.idgen.NewID(),
		Kind:     kind,
		Resource: resource,
		RecordID: recordID,
		Payload:  payload,
		Prior:    prior,
	}
	m.mu.Lock()
	m.ops = append(m.ops, op)
	m.mu.Unlock()
	return op.ID
}

// Operations returns a copy of the current operation log.
func (m *Manager) Operations() []domain.Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Operation, len(m.ops))
	copy(out, m.ops)
	return out
}

// Create performs a create through the DataSource and records it. The
// backend-assigned identifier (the "id" field of the stored record) is
// captured so the create can be undone.
func (m *Manager) Create(ctx context.Context, resource string, data map[string]any) (map[string]any, error) {
	stored, err := m.ds.Create(ctx, resource, data)
	if err != nil {
		return nil, err
	}
	id, _ := stored["id"].(string)
	m.RecordOperation(domain.OpCreate, resource, id, data, nil)
	return stored, nil
}

// Update snapshots the prior state, performs the update, and records it.
func (m *Manager) Update(ctx context.Context, resource, id string, data map[string]any) (map[string]any, error) {
	if id == "" {
		return nil, domain.ErrMissingID
	}
	prior, err := m.ds.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	stored, err := m.ds.Update(ctx, resource, id, data)
	if err != nil {
		return nil, err
	}
	m.RecordOperation(domain.OpUpdate, resource, id, data, prior)
	return stored, nil
}

// Delete snapshots the prior state, performs the delete, and records it.
func (m *Manager) Delete(ctx context.Context, resource, id string) error {
	if id == "" {
		return domain.ErrMissingID
	}
	prior, err := m.ds.Get(ctx, resource, id)
	if err != nil {
		return err
	}
	if err := m.ds.Delete(ctx, resource, id); err != nil {
		return err
	}
	m.RecordOperation(domain.OpDelete, resource, id, nil, prior)
	return nil
}

// rollback replays the operation log in reverse: creates are deleted,
// updates are replaced by their prior snapshot, deletes are re-created.
// Rollback is best-effort: per-operation errors are logged and swallowed,
// never re-thrown, and the log is cleared unconditionally at the end.
func (m *Manager) rollback(ctx context.Context) {
	m.mu.Lock()
	ops := m.ops
	m.ops = nil
	m.mu.Unlock()

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		var err error
		switch op.Kind {
		case domain.OpCreate:
			if op.RecordID == "" {
				// No identifier was captured; nothing addressable to delete.
				m.logger.Warn("rollback skipping create without identifier",
					"resource", op.Resource)
				continue
			}
			err = m.ds.Delete(ctx, op.Resource, op.RecordID)
		case domain.OpUpdate:
			// Update merges, so restoring the snapshot needs a full
			// replacement: delete the current record, re-create the prior one.
			if derr := m.ds.Delete(ctx, op.Resource, op.RecordID); derr != nil {
				m.logger.Debug("rollback replace: delete failed",
					"resource", op.Resource, "record", op.RecordID, "err", derr)
			}
			_, err = m.ds.Create(ctx, op.Resource, op.Prior)
		case domain.OpDelete:
			_, err = m.ds.Create(ctx, op.Resource, op.Prior)
		}
		if err != nil {
			m.logger.Warn("rollback operation failed",
				"kind", op.Kind, "resource", op.Resource, "record", op.RecordID, "err", err)
		}
	}
}
