// Package memory provides an in-memory DataSource, used as a default backend
// in tests and demos. Safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/ports"
)

// Store implements ports.BulkDataSource in memory.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]map[string]any
	idgen   ports.IDGenerator
}

// Option configures the store.
type Option func(*Store)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g ports.IDGenerator) Option {
	return func(s *Store) { s.idgen = g }
}

// NewStore creates an empty in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]map[string]map[string]any),
		idgen:   ports.IDGeneratorFunc(uuid.NewString),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func copyRecord(rec map[string]any) map[string]any {
	cp := make(map[string]any, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp
}

// Create stores a new record, assigning an "id" when the data carries none.
func (s *Store) Create(ctx context.Context, resource string, data map[string]any) (map[string]any, error) {
	rec := copyRecord(data)
	id, _ := rec["id"].(string)
	if id == "" {
		id = s.idgen.NewID()
		rec["id"] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[resource] == nil {
		s.records[resource] = make(map[string]map[string]any)
	}
	s.records[resource][id] = rec
	return copyRecord(rec), nil
}

// Update overwrites fields of an existing record.
func (s *Store) Update(ctx context.Context, resource, id string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[resource][id]
	if !ok {
		return nil, fmt.Errorf("record %s/%s not found", resource, id)
	}
	for k, v := range data {
		rec[k] = v
	}
	rec["id"] = id
	return copyRecord(rec), nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, resource, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[resource][id]; !ok {
		return fmt.Errorf("record %s/%s not found", resource, id)
	}
	delete(s.records[resource], id)
	return nil
}

// Get returns a copy of a record, so callers cannot mutate store state.
func (s *Store) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[resource][id]
	if !ok {
		return nil, fmt.Errorf("record %s/%s not found", resource, id)
	}
	return copyRecord(rec), nil
}

// Bulk applies one operation to all items in a single call.
func (s *Store) Bulk(ctx context.Context, resource string, op domain.OperationKind, items []map[string]any) ([]any, error) {
	out := make([]any, 0, len(items))
	for i, item := range items {
		switch op {
		case domain.OpCreate:
			rec, err := s.Create(ctx, resource, item)
			if err != nil {
				return nil, fmt.Errorf("bulk item %d: %w", i, err)
			}
			out = append(out, rec)
		case domain.OpUpdate:
			id, _ := item["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("bulk item %d: %w", i, domain.ErrMissingID)
			}
			rec, err := s.Update(ctx, resource, id, item)
			if err != nil {
				return nil, fmt.Errorf("bulk item %d: %w", i, err)
			}
			out = append(out, rec)
		case domain.OpDelete:
			id, _ := item["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("bulk item %d: %w", i, domain.ErrMissingID)
			}
			if err := s.Delete(ctx, resource, id); err != nil {
				return nil, fmt.Errorf("bulk item %d: %w", i, err)
			}
			out = append(out, id)
		default:
			return nil, fmt.Errorf("unsupported bulk operation %q", op)
		}
	}
	return out, nil
}

// Count returns the number of records in a resource. Test helper.
func (s *Store) Count(resource string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[resource])
}
