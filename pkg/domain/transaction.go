package domain

// OperationKind identifies the side effect recorded by an Operation.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
	OpDelete OperationKind = "delete"
)

// Operation records one committed side effect while a transaction is in
// flight. The log is appended only by the transaction manager and consumed
// during rollback (reverse order) or cleared on success.
type Operation struct {
	ID       string         `json:"id"`
	Kind     OperationKind  `json:"kind"`
	Resource string         `json:"resource"`
	RecordID string         `json:"record_id,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`

	// Prior is the snapshot taken before an update or delete, written back
	// (update) or re-created (delete) when the operation is undone.
	Prior map[string]any `json:"prior,omitempty"`
}

// OptimisticUpdate is a pending UI-visible change applied before backend
// confirmation. Exactly one of Confirmed or RolledBack may become true.
type OptimisticUpdate struct {
	ID       string         `json:"id"`
	Kind     OperationKind  `json:"kind"`
	Resource string         `json:"resource"`
	RecordID string         `json:"record_id,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	Prior    map[string]any `json:"prior,omitempty"`

	Confirmed  bool `json:"confirmed"`
	RolledBack bool `json:"rolled_back"`
}

// Pending reports whether the update has not yet reached a terminal state.
func (u *OptimisticUpdate) Pending() bool {
	return !u.Confirmed && !u.RolledBack
}

// ProgressEvent is a snapshot emitted synchronously to transaction progress
// listeners. Purely observational; listeners must not mutate manager state.
type ProgressEvent struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Failed    int     `json:"failed"`
	Percent   float64 `json:"percent"`
	Current   string  `json:"current,omitempty"`
}

// BatchResult accumulates the outcome of a batch execution.
type BatchResult struct {
	Results   []any        `json:"results"`
	Errors    []BatchError `json:"errors"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`

	// Bulk is true when the single bulk fast path served the whole batch.
	Bulk bool `json:"bulk"`
}

// BatchError ties a per-item failure back to its input index.
type BatchError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}
