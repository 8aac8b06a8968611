package domain

// ActionKind tags the dispatch behavior of an ActionDefinition.
type ActionKind string

const (
	// KindScript evaluates an expression against the current context.
	KindScript ActionKind = "script"
	// KindURL opens an external URL (scheme-validated).
	KindURL ActionKind = "url"
	// KindModal returns a modal schema for the host to render.
	KindModal ActionKind = "modal"
	// KindFlow delegates to a registered flow handler.
	KindFlow ActionKind = "flow"
	// KindAPI performs an HTTP call through the injected API client.
	KindAPI ActionKind = "api"
	// KindNavigation performs in-app (SPA) navigation.
	KindNavigation ActionKind = "navigation"
	// KindCustom invokes a handler registered under CustomHandler.
	KindCustom ActionKind = "custom"
)

// ConfirmDialog is a structured confirmation prompt. A bare ConfirmText on the
// action is the shorthand form.
type ConfirmDialog struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Message string `json:"message" yaml:"message"`
	OKText  string `json:"ok_text,omitempty" yaml:"ok_text,omitempty"`
}

// ParamDef describes one value to collect from the user before dispatch.
type ParamDef struct {
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// APICall configures a KindAPI dispatch.
type APICall struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Body    map[string]any    `json:"body,omitempty" yaml:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ActionDefinition is the declarative description of one action.
//
// Definitions are immutable once constructed and are re-used across repeated
// executions (bulk runs execute the same definition once per record). Template
// strings (${...}) in string fields are resolved at execution time against the
// runner's current context.
type ActionDefinition struct {
	Name  string     `json:"name" yaml:"name"`
	Label string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind  ActionKind `json:"kind" yaml:"kind"`

	// Guard phase. Condition must evaluate truthy (empty = always runs);
	// Disabled may be a bool or an expression string.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Disabled  any    `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Confirm phase. ConfirmText is the shorthand; Confirm wins when both set.
	ConfirmText string         `json:"confirm_text,omitempty" yaml:"confirm_text,omitempty"`
	Confirm     *ConfirmDialog `json:"confirm,omitempty" yaml:"confirm,omitempty"`

	// Params collected before dispatch; a cancelled collection short-circuits.
	Params []ParamDef `json:"params,omitempty" yaml:"params,omitempty"`

	// Kind-specific configuration.
	Script string         `json:"script,omitempty" yaml:"script,omitempty"`
	URL    string         `json:"url,omitempty" yaml:"url,omitempty"`
	Modal  map[string]any `json:"modal,omitempty" yaml:"modal,omitempty"`
	Flow   string         `json:"flow,omitempty" yaml:"flow,omitempty"`
	API    *APICall       `json:"api,omitempty" yaml:"api,omitempty"`
	Path   string         `json:"path,omitempty" yaml:"path,omitempty"`
	Custom string         `json:"custom,omitempty" yaml:"custom,omitempty"`

	// Schema is the raw definition document, returned by the generic fallback
	// executor for kinds this engine does not recognize.
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Post-processing.
	Chain         []*ActionDefinition `json:"chain,omitempty" yaml:"chain,omitempty"`
	ChainParallel bool                `json:"chain_parallel,omitempty" yaml:"chain_parallel,omitempty"`
	OnSuccess     []*ActionDefinition `json:"on_success,omitempty" yaml:"on_success,omitempty"`
	OnFailure     []*ActionDefinition `json:"on_failure,omitempty" yaml:"on_failure,omitempty"`

	// Side-effect hints.
	RefreshAfter bool   `json:"refresh_after,omitempty" yaml:"refresh_after,omitempty"`
	CloseAfter   bool   `json:"close_after,omitempty" yaml:"close_after,omitempty"`
	Redirect     string `json:"redirect,omitempty" yaml:"redirect,omitempty"`

	// Toast configuration.
	SuccessMessage       string `json:"success_message,omitempty" yaml:"success_message,omitempty"`
	ErrorMessage         string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	SuppressSuccessToast bool   `json:"suppress_success_toast,omitempty" yaml:"suppress_success_toast,omitempty"`
	SuppressErrorToast   bool   `json:"suppress_error_toast,omitempty" yaml:"suppress_error_toast,omitempty"`

	// Registration metadata consumed by the engine.
	Locations []string `json:"locations,omitempty" yaml:"locations,omitempty"`
	Shortcut  string   `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Bulk      bool     `json:"bulk,omitempty" yaml:"bulk,omitempty"`
	Priority  int      `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// ConfirmMessage returns the effective confirmation prompt, or "" when the
// action requires no confirmation.
func (a *ActionDefinition) ConfirmMessage() string {
	if a.Confirm != nil && a.Confirm.Message != "" {
		return a.Confirm.Message
	}
	return a.ConfirmText
}

// DefaultPriority is assigned to registered actions that do not set one.
const DefaultPriority = 100
