package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/objectql/actionflow/pkg/domain"
)

// BulkOptions controls per-record execution of a bulk action.
type BulkOptions struct {
	// Parallel attempts all records independently as one pre-launched set.
	Parallel bool
	// ContinueOnError keeps sequential execution going past failures.
	// Ignored in parallel mode, where records are independent anyway.
	ContinueOnError bool
}

// BulkOutcome counts per-record results of one bulk run.
type BulkOutcome struct {
	Results   []*domain.ActionResult
	Succeeded int
	Failed    int
}

// ExecuteBulk runs a registered, bulk-eligible action once per record. Each
// record executes in its own child scope exposing the record as "record".
func (e *Engine) ExecuteBulk(ctx context.Context, name string, records []map[string]any, opts BulkOptions) (*BulkOutcome, error) {
	def, ok := e.Action(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAction, name)
	}
	if !def.Bulk {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotBulk, name)
	}

	outcome := &BulkOutcome{Results: make([]*domain.ActionResult, 0, len(records))}
	if opts.Parallel {
		results := make([]*domain.ActionResult, len(records))
		var wg sync.WaitGroup
		for i, record := range records {
			wg.Add(1)
			go func(i int, branch *Runner, record map[string]any) {
				defer wg.Done()
				branch.Evaluator().PushScope(map[string]any{"record": record})
				results[i] = branch.Execute(ctx, def)
			}(i, e.runner.fork(), record)
		}
		wg.Wait()
		for _, result := range results {
			outcome.tally(result)
		}
		return outcome, nil
	}

	for _, record := range records {
		branch := e.runner.fork()
		branch.Evaluator().PushScope(map[string]any{"record": record})
		result := branch.Execute(ctx, def)
		outcome.tally(result)
		if !result.Success && !opts.ContinueOnError {
			break
		}
	}
	return outcome, nil
}

func (o *BulkOutcome) tally(result *domain.ActionResult) {
	o.Results = append(o.Results, result)
	if result.Success {
		o.Succeeded++
	} else {
		o.Failed++
	}
}
