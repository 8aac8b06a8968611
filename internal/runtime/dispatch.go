package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/objectql/actionflow/pkg/domain"
)

// dispatch routes by action kind. It is terminal-safe: panics and errors are
// converted into failure results so post-processing always runs.
func (r *Runner) dispatch(ctx context.Context, def *domain.ActionDefinition) (result *domain.ActionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("action dispatch panicked", "action", def.Name, "kind", def.Kind, "panic", rec)
			result = domain.Failf(fmt.Sprintf("action panicked: %v", rec))
		}
	}()

	switch def.Kind {
	case domain.KindScript:
		return r.executeScript(def)
	case domain.KindURL:
		return r.executeURL(ctx, def)
	case domain.KindModal:
		return r.executeModal(ctx, def)
	case domain.KindFlow:
		return r.executeFlow(ctx, def)
	case domain.KindAPI:
		return r.executeAPI(ctx, def)
	case domain.KindNavigation:
		return r.executeNavigation(ctx, def)
	case domain.KindCustom:
		return r.executeCustom(ctx, def)
	default:
		// Generic fallback: hand the raw schema back to the host.
		r.logger.Debug("unrecognized action kind; returning schema", "action", def.Name, "kind", def.Kind)
		return domain.Succeed(def.Schema)
	}
}

func (r *Runner) executeScript(def *domain.ActionDefinition) *domain.ActionResult {
	value, err := r.evaluator.EvaluateExpression(def.Script)
	if err != nil {
		return domain.Fail(err)
	}
	return domain.Succeed(value)
}

// validTarget restricts navigation targets to http(s) URLs and relative
// paths. Anything else (javascript:, data:, file:, ...) fails closed; this
// blocks script injection through crafted action definitions.
func validTarget(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(t, "http://") ||
		strings.HasPrefix(t, "https://") ||
		strings.HasPrefix(t, "/") ||
		strings.HasPrefix(t, "./")
}

func (r *Runner) navigate(ctx context.Context, def *domain.ActionDefinition, raw string, external bool) *domain.ActionResult {
	rendered, err := r.evaluator.Evaluate(raw)
	if err != nil {
		return domain.Fail(err)
	}
	target := fmt.Sprintf("%v", rendered)
	if !validTarget(target) {
		r.logger.Warn("navigation target rejected", "action", def.Name, "target", target)
		return domain.Failf(fmt.Sprintf("unsafe navigation target %q", target))
	}
	if r.navigator != nil {
		if err := r.navigator.Navigate(ctx, target, external); err != nil {
			return domain.Fail(err)
		}
	}
	return &domain.ActionResult{Success: true, Data: target, Redirect: target}
}

func (r *Runner) executeURL(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	return r.navigate(ctx, def, def.URL, true)
}

func (r *Runner) executeNavigation(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	return r.navigate(ctx, def, def.Path, false)
}

func (r *Runner) executeModal(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	if r.modal == nil {
		// Degrade: return the schema for the host to render.
		return &domain.ActionResult{Success: true, Modal: def.Modal}
	}
	result, err := r.modal.RenderModal(ctx, def.Modal, r.evaluator.Context().Flatten())
	if err != nil {
		return domain.Fail(err)
	}
	if result == nil {
		result = &domain.ActionResult{Success: true, Modal: def.Modal}
	}
	return result
}

func (r *Runner) executeFlow(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	if r.flow == nil {
		return domain.Failf(fmt.Sprintf("no flow handler installed for flow %q", def.Flow))
	}
	input := r.evaluator.Context().Flatten()
	result, err := r.flow.RunFlow(ctx, def.Flow, input)
	if err != nil {
		return domain.Fail(err)
	}
	if result == nil {
		result = &domain.ActionResult{Success: true}
	}
	return result
}

func (r *Runner) executeAPI(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	if r.api == nil {
		return domain.Failf("no api client installed")
	}
	call := def.API
	rendered, err := r.evaluator.Evaluate(call.URL)
	if err != nil {
		return domain.Fail(err)
	}
	url := fmt.Sprintf("%v", rendered)

	body := make(map[string]any, len(call.Body))
	for k, v := range call.Body {
		rv, err := r.evaluator.Evaluate(v)
		if err != nil {
			return domain.Fail(err)
		}
		body[k] = rv
	}

	method := call.Method
	if method == "" {
		method = "POST"
	}
	payload, err := r.api.Call(ctx, method, url, body, call.Headers)
	if err != nil {
		// Transport errors keep their message verbatim.
		return domain.Fail(err)
	}
	return domain.Succeed(payload)
}

func (r *Runner) executeCustom(ctx context.Context, def *domain.ActionDefinition) *domain.ActionResult {
	handler, ok := r.custom[def.Custom]
	if !ok {
		return domain.Failf(fmt.Sprintf("no custom handler registered for %q", def.Custom))
	}
	result, err := handler(ctx, def, r.evaluator.Context().Flatten())
	if err != nil {
		return domain.Fail(err)
	}
	if result == nil {
		result = &domain.ActionResult{Success: true}
	}
	return result
}

// postProcess applies toasts, side-effect hints, chaining and callbacks.
// It always receives a non-nil dispatch result.
func (r *Runner) postProcess(ctx context.Context, def *domain.ActionDefinition, result *domain.ActionResult) *domain.ActionResult {
	if result == nil {
		result = &domain.ActionResult{Success: true}
	}

	r.emitToast(def, result)

	if def.RefreshAfter {
		result.Reload = true
	}
	if def.CloseAfter {
		result.Close = true
	}
	if def.Redirect != "" && result.Redirect == "" {
		if rendered, err := r.evaluator.Evaluate(def.Redirect); err == nil {
			result.Redirect = fmt.Sprintf("%v", rendered)
		}
	}

	if result.Success && len(def.Chain) > 0 {
		chainResult := r.ExecuteChain(ctx, def.Chain, def.ChainParallel)
		if !chainResult.Success {
			r.logger.Warn("chained action failed", "action", def.Name, "err", chainResult.Err)
		}
	}

	callbacks := def.OnSuccess
	if !result.Success {
		callbacks = def.OnFailure
	}
	for _, cb := range callbacks {
		if cbResult := r.Execute(ctx, cb); !cbResult.Success {
			r.logger.Warn("callback action failed", "action", def.Name, "callback", cb.Name, "err", cbResult.Err)
		}
	}

	return result
}

func (r *Runner) emitToast(def *domain.ActionDefinition, result *domain.ActionResult) {
	if r.toaster == nil {
		return
	}
	if result.Success {
		if def.SuccessMessage == "" || def.SuppressSuccessToast {
			return
		}
		message := def.SuccessMessage
		if rendered, err := r.evaluator.Evaluate(message); err == nil {
			message = fmt.Sprintf("%v", rendered)
		}
		r.toaster.Toast(message, false)
		return
	}
	if def.SuppressErrorToast {
		return
	}
	message := def.ErrorMessage
	if message == "" {
		message = result.Err
	}
	if message != "" {
		r.toaster.Toast(message, true)
	}
}
