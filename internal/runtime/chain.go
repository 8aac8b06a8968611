package runtime

import (
	"context"
	"sync"

	"github.com/objectql/actionflow/pkg/domain"
)

// ExecuteChain runs follow-up actions.
//
// Sequential mode stops at the first failure and returns it. Parallel mode
// launches the whole set up front, awaits all of them, and aggregates: any
// failure yields the first encountered failure's error. On success the
// result data is the ordered list of per-action payloads.
func (r *Runner) ExecuteChain(ctx context.Context, actions []*domain.ActionDefinition, parallel bool) *domain.ActionResult {
	if len(actions) == 0 {
		return &domain.ActionResult{Success: true}
	}
	if parallel {
		return r.executeChainParallel(ctx, actions)
	}

	data := make([]any, 0, len(actions))
	for _, def := range actions {
		result := r.Execute(ctx, def)
		if !result.Success {
			return result
		}
		data = append(data, result.Data)
	}
	return domain.Succeed(data)
}

func (r *Runner) executeChainParallel(ctx context.Context, actions []*domain.ActionDefinition) *domain.ActionResult {
	results := make([]*domain.ActionResult, len(actions))

	var wg sync.WaitGroup
	for i, def := range actions {
		wg.Add(1)
		// Each branch gets a forked runner so scope writes stay isolated.
		go func(i int, def *domain.ActionDefinition, branch *Runner) {
			defer wg.Done()
			results[i] = branch.Execute(ctx, def)
		}(i, def, r.fork())
	}
	wg.Wait()

	data := make([]any, 0, len(actions))
	for _, result := range results {
		if !result.Success {
			return result
		}
		data = append(data, result.Data)
	}
	return domain.Succeed(data)
}
