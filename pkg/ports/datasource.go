package ports

import (
	"context"

	"github.com/objectql/actionflow/pkg/domain"
)

// DataSource is the storage capability consumed by the transaction manager.
// It is implemented by the host (or by one of the bundled adapters); the
// engine never talks to a backend directly.
type DataSource interface {
	// Create stores a new record and returns it as persisted (including any
	// backend-assigned identifier under "id").
	Create(ctx context.Context, resource string, data map[string]any) (map[string]any, error)

	// Update overwrites fields of an existing record and returns the
	// resulting record.
	Update(ctx context.Context, resource, id string, data map[string]any) (map[string]any, error)

	// Delete removes a record.
	Delete(ctx context.Context, resource, id string) error

	// Get reads a record, used to capture prior state before update/delete.
	Get(ctx context.Context, resource, id string) (map[string]any, error)
}

// BulkDataSource is optionally implemented by DataSources that support a
// single backend call replacing N individual calls. The batch executor probes
// for it and falls back to per-item processing when it is absent or fails.
type BulkDataSource interface {
	DataSource

	Bulk(ctx context.Context, resource string, op domain.OperationKind, items []map[string]any) ([]any, error)
}
