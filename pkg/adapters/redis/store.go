// Package redis provides a Redis-backed DataSource. Records are stored as
// JSON values under prefixed keys, with a per-resource index set.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/objectql/actionflow/pkg/ports"
)

// Store implements ports.DataSource using Redis.
type Store struct {
	client *backend.Client
	prefix string
	idgen  ports.IDGenerator
}

// Option configures the store.
type Option func(*Store)

// WithPrefix sets the key prefix for records.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g ports.IDGenerator) Option {
	return func(s *Store) { s.idgen = g }
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "actionflow:record:",
		idgen:  ports.IDGeneratorFunc(uuid.NewString),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(resource, id string) string {
	return s.prefix + resource + ":" + id
}

func (s *Store) indexKey(resource string) string {
	return s.prefix + resource + ":index"
}

// Create stores a new record, assigning an "id" when the data carries none.
func (s *Store) Create(ctx context.Context, resource string, data map[string]any) (map[string]any, error) {
	rec := make(map[string]any, len(data))
	for k, v := range data {
		rec[k] = v
	}
	id, _ := rec["id"].(string)
	if id == "" {
		id = s.idgen.NewID()
		rec["id"] = id
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(resource, id), raw, 0)
	pipe.SAdd(ctx, s.indexKey(resource), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save to redis: %w", err)
	}
	return rec, nil
}

// Get reads and decodes a record.
func (s *Store) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	raw, err := s.client.Get(ctx, s.key(resource, id)).Bytes()
	if err == backend.Nil {
		return nil, fmt.Errorf("record %s/%s not found", resource, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return rec, nil
}

// Update merges fields into an existing record.
func (s *Store) Update(ctx context.Context, resource, id string, data map[string]any) (map[string]any, error) {
	rec, err := s.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	for k, v := range data {
		rec[k] = v
	}
	rec["id"] = id

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(resource, id), raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to save to redis: %w", err)
	}
	return rec, nil
}

// Delete removes a record and its index entry.
func (s *Store) Delete(ctx context.Context, resource, id string) error {
	n, err := s.client.Del(ctx, s.key(resource, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s/%s not found", resource, id)
	}
	s.client.SRem(ctx, s.indexKey(resource), id)
	return nil
}

// List returns the identifiers stored for a resource.
func (s *Store) List(ctx context.Context, resource string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey(resource)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list from redis: %w", err)
	}
	return ids, nil
}
