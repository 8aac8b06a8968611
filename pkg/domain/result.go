package domain

// ActionResult is the value-typed outcome of one action execution.
// Nothing escapes the runner boundary as a fault; failures are carried here.
type ActionResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Err     string `json:"error,omitempty"`

	// Side-effect signals for the host UI.
	Reload   bool           `json:"reload,omitempty"`
	Close    bool           `json:"close,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
	Modal    map[string]any `json:"modal,omitempty"`

	// RolledBack distinguishes "failed, state restored" from "failed, no
	// rollback attempted". Set only by the transaction manager.
	RolledBack bool `json:"rolled_back,omitempty"`
}

// Succeed builds a success result carrying data.
func Succeed(data any) *ActionResult {
	return &ActionResult{Success: true, Data: data}
}

// Fail builds a failure result from an error.
func Fail(err error) *ActionResult {
	if err == nil {
		return &ActionResult{Success: false}
	}
	return &ActionResult{Success: false, Err: err.Error()}
}

// Failf builds a failure result from a message.
func Failf(msg string) *ActionResult {
	return &ActionResult{Success: false, Err: msg}
}
