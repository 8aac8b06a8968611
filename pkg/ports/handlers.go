package ports

import (
	"context"

	"github.com/objectql/actionflow/pkg/domain"
)

// Confirmer prompts the user before a guarded action proceeds.
// Returning false cancels the action without error.
type Confirmer interface {
	Confirm(ctx context.Context, message string, dialog *domain.ConfirmDialog) (bool, error)
}

// Toaster surfaces success/error messages to the user.
type Toaster interface {
	Toast(message string, isError bool)
}

// ModalRenderer renders a modal schema and returns the outcome of the user's
// interaction with it.
type ModalRenderer interface {
	RenderModal(ctx context.Context, schema map[string]any, scope map[string]any) (*domain.ActionResult, error)
}

// Navigator performs URL or in-app navigation. The runner validates schemes
// before calling it; implementations may assume the target is safe.
type Navigator interface {
	Navigate(ctx context.Context, target string, external bool) error
}

// ParamCollector gathers parameter values before dispatch.
// A nil map (with nil error) means the user cancelled.
type ParamCollector interface {
	Collect(ctx context.Context, params []domain.ParamDef) (map[string]any, error)
}

// FlowHandler executes a named flow on behalf of a KindFlow action.
type FlowHandler interface {
	RunFlow(ctx context.Context, name string, input map[string]any) (*domain.ActionResult, error)
}

// CustomHandler executes a registered custom action kind.
type CustomHandler func(ctx context.Context, action *domain.ActionDefinition, scope map[string]any) (*domain.ActionResult, error)

// APIClient performs the HTTP call behind a KindAPI action. Implementations
// return *domain.TransportError for non-2xx responses so the message is
// preserved verbatim.
type APIClient interface {
	Call(ctx context.Context, method, url string, body map[string]any, headers map[string]string) (any, error)
}

// IDGenerator mints identifiers for transactions, operations and optimistic
// updates. Injected so generation stays deterministic in tests.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to the IDGenerator interface.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }
