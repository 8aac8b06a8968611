package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/ports"
)

// BatchOptions controls per-item retry behavior after the bulk fast path.
type BatchOptions struct {
	// RetryOnError enables per-item retry with the same exponential
	// backoff schedule as transactions.
	RetryOnError bool
	MaxRetries   int
	RetryDelay   time.Duration
}

// ExecuteBatch applies one operation to many items.
//
// When the DataSource supports bulk calls, a single call serves the whole
// batch. On any bulk failure (including the capability being absent) it
// falls back to per-item processing. Update and delete items without an
// identifier fail immediately without retry: retrying cannot produce one.
func (m *Manager) ExecuteBatch(ctx context.Context, resource string, op domain.OperationKind, items []map[string]any, opts BatchOptions) *domain.BatchResult {
	result := &domain.BatchResult{}

	if bulk, ok := m.ds.(ports.BulkDataSource); ok {
		out, err := bulk.Bulk(ctx, resource, op, items)
		if err == nil {
			result.Results = out
			result.Succeeded = len(items)
			result.Bulk = true
			return result
		}
		m.logger.Warn("bulk fast path failed; falling back to per-item",
			"resource", resource, "op", op, "err", err)
	}

	for i, item := range items {
		out, err := m.batchItem(ctx, resource, op, item, opts)
		if err != nil {
			result.Errors = append(result.Errors, domain.BatchError{Index: i, Error: err.Error()})
			result.Failed++
			continue
		}
		result.Results = append(result.Results, out)
		result.Succeeded++
	}
	return result
}

func itemID(item map[string]any) string {
	id, _ := item["id"].(string)
	return id
}

func (m *Manager) batchItem(ctx context.Context, resource string, op domain.OperationKind, item map[string]any, opts BatchOptions) (any, error) {
	id := itemID(item)
	if (op == domain.OpUpdate || op == domain.OpDelete) && id == "" {
		return nil, domain.ErrMissingID
	}

	attempts := 1
	if opts.RetryOnError {
		attempts = opts.MaxRetries + 1
	}

	var lastErr error
	for n := 0; n < attempts; n++ {
		if n > 0 {
			delay := opts.RetryDelay * (1 << (n - 1))
			if err := m.sleep(ctx, delay); err != nil {
				return nil, errors.Join(lastErr, err)
			}
		}

		var out any
		var err error
		switch op {
		case domain.OpCreate:
			out, err = m.ds.Create(ctx, resource, item)
		case domain.OpUpdate:
			out, err = m.ds.Update(ctx, resource, id, item)
		case domain.OpDelete:
			err = m.ds.Delete(ctx, resource, id)
			out = id
		default:
			return nil, errors.New("unsupported batch operation: " + string(op))
		}
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
