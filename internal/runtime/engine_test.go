package runtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectql/actionflow/pkg/domain"
)

func newTestEngine(vars map[string]any, opts ...RunnerOption) *Engine {
	return NewEngine(newTestRunner(vars, opts...))
}

func TestNormalizeShortcut(t *testing.T) {
	assert.Equal(t, "ctrl+s", NormalizeShortcut("Ctrl+S"))
	assert.Equal(t, NormalizeShortcut("Ctrl+Shift+K"), NormalizeShortcut("shift + k + CTRL"))
	assert.Equal(t, "k", NormalizeShortcut(" K "))
	assert.Equal(t, "", NormalizeShortcut(""))
}

func TestRegisterAction_Validation(t *testing.T) {
	e := newTestEngine(nil)
	assert.Error(t, e.RegisterAction(nil))
	assert.Error(t, e.RegisterAction(&domain.ActionDefinition{Kind: domain.KindScript}))
	assert.NoError(t, e.RegisterAction(&domain.ActionDefinition{Name: "a", Kind: domain.KindScript, Script: "1"}))

	def, ok := e.Action("a")
	require.True(t, ok)
	assert.Equal(t, "a", def.Name)
}

func TestRegisterAction_ReplacementMovesShortcut(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "save", Kind: domain.KindScript, Script: "1", Shortcut: "Ctrl+S",
	}))
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "save", Kind: domain.KindScript, Script: "2", Shortcut: "Ctrl+Shift+S",
	}))

	assert.Nil(t, e.HandleShortcut(context.Background(), "ctrl+s"), "old binding must be released")
	result := e.HandleShortcut(context.Background(), "s+shift+ctrl")
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Data)
}

func TestUnregisterAction(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "save", Kind: domain.KindScript, Script: "1", Shortcut: "Ctrl+S",
	}))
	e.UnregisterAction("save")

	_, ok := e.Action("save")
	assert.False(t, ok)
	assert.Nil(t, e.HandleShortcut(context.Background(), "ctrl+s"))

	e.UnregisterAction("never_existed")
}

func TestActionsForLocation_PrioritySorted(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "zeta", Kind: domain.KindScript, Locations: []string{"toolbar"},
	}))
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "alpha", Kind: domain.KindScript, Locations: []string{"toolbar"},
	}))
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "urgent", Kind: domain.KindScript, Locations: []string{"toolbar"}, Priority: 1,
	}))
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "elsewhere", Kind: domain.KindScript, Locations: []string{"sidebar"},
	}))

	got := e.ActionsForLocation("toolbar")
	names := make([]string, len(got))
	for i, def := range got {
		names[i] = def.Name
	}
	// Priority ascending, unset priority defaults to 100, then name order.
	assert.Equal(t, []string{"urgent", "alpha", "zeta"}, names)
	assert.Empty(t, e.ActionsForLocation("nowhere"))
}

func TestBulkActions(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{Name: "single", Kind: domain.KindScript}))
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{Name: "many", Kind: domain.KindScript, Bulk: true}))

	got := e.BulkActions()
	require.Len(t, got, 1)
	assert.Equal(t, "many", got[0].Name)
}

func TestDispatch_CollectsAllMatches(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "log_change", Kind: domain.KindScript, Script: "event.id",
	}))
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "notify", Kind: domain.KindScript, Script: "'notified'",
	}))
	e.AddMapping("record.updated", "log_change", "")
	e.AddMapping("record.updated", "notify", "event.important")
	e.AddMapping("record.updated", "ghost", "")
	e.AddMapping("record.deleted", "log_change", "")

	results := e.Dispatch(context.Background(), "record.updated", map[string]any{"id": "r1", "important": true})
	require.Len(t, results, 3)
	assert.Equal(t, "r1", results[0].Data)
	assert.Equal(t, "notified", results[1].Data)
	assert.False(t, results[2].Success)
	assert.Equal(t, domain.ErrUnknownAction.Error(), results[2].Err)
}

func TestDispatch_ConditionFiltersMapping(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "notify", Kind: domain.KindScript, Script: "1",
	}))
	e.AddMapping("record.updated", "notify", "event.important")

	results := e.Dispatch(context.Background(), "record.updated", map[string]any{"important": false})
	assert.Empty(t, results)
}

func TestDispatch_NoMatches(t *testing.T) {
	e := newTestEngine(nil)
	assert.Empty(t, e.Dispatch(context.Background(), "nothing.bound", nil))
}

func TestHandleShortcut_Unbound(t *testing.T) {
	e := newTestEngine(nil)
	assert.Nil(t, e.HandleShortcut(context.Background(), "ctrl+k"))
}

func TestExecuteBulk_UnknownAndNotBulk(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{Name: "single", Kind: domain.KindScript, Script: "1"}))

	_, err := e.ExecuteBulk(context.Background(), "missing", nil, BulkOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownAction)

	_, err = e.ExecuteBulk(context.Background(), "single", nil, BulkOptions{})
	assert.ErrorIs(t, err, domain.ErrNotBulk)
}

func bulkRecords(ids ...string) []map[string]any {
	records := make([]map[string]any, len(ids))
	for i, id := range ids {
		records[i] = map[string]any{"id": id}
	}
	return records
}

func TestExecuteBulk_Sequential(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "tag", Kind: domain.KindScript, Script: "record.id", Bulk: true,
	}))

	outcome, err := e.ExecuteBulk(context.Background(), "tag", bulkRecords("a", "b", "c"), BulkOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Succeeded)
	assert.Equal(t, 0, outcome.Failed)
	require.Len(t, outcome.Results, 3)
	assert.Equal(t, "a", outcome.Results[0].Data)
	assert.Equal(t, "c", outcome.Results[2].Data)
}

func TestExecuteBulk_SequentialStopsOnFailure(t *testing.T) {
	var calls int32
	e := newTestEngine(nil)
	e.Runner().RegisterCustomHandler("flaky", func(_ context.Context, _ *domain.ActionDefinition, scope map[string]any) (*domain.ActionResult, error) {
		atomic.AddInt32(&calls, 1)
		record := scope["record"].(map[string]any)
		if record["id"] == "b" {
			return nil, errors.New("record b is locked")
		}
		return domain.Succeed(record["id"]), nil
	})
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "flaky", Kind: domain.KindCustom, Custom: "flaky", Bulk: true,
	}))

	outcome, err := e.ExecuteBulk(context.Background(), "flaky", bulkRecords("a", "b", "c"), BulkOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Len(t, outcome.Results, 2, "execution stops at the first failure")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// ContinueOnError pushes through failures.
	atomic.StoreInt32(&calls, 0)
	outcome, err = e.ExecuteBulk(context.Background(), "flaky", bulkRecords("a", "b", "c"), BulkOptions{ContinueOnError: true})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Len(t, outcome.Results, 3)
}

func TestExecuteBulk_Parallel(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "tag", Kind: domain.KindScript, Script: "record.id", Bulk: true,
	}))

	outcome, err := e.ExecuteBulk(context.Background(), "tag", bulkRecords("a", "b", "c", "d"), BulkOptions{Parallel: true})
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.Succeeded)
	require.Len(t, outcome.Results, 4)
	// Results keep record order even when execution interleaves.
	assert.Equal(t, "a", outcome.Results[0].Data)
	assert.Equal(t, "d", outcome.Results[3].Data)
}

func TestExecuteBulk_ParallelCountsFailures(t *testing.T) {
	e := newTestEngine(nil)
	e.Runner().RegisterCustomHandler("flaky", func(_ context.Context, _ *domain.ActionDefinition, scope map[string]any) (*domain.ActionResult, error) {
		record := scope["record"].(map[string]any)
		if record["id"] == "b" {
			return nil, errors.New("locked")
		}
		return nil, nil
	})
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name: "flaky", Kind: domain.KindCustom, Custom: "flaky", Bulk: true,
	}))

	outcome, err := e.ExecuteBulk(context.Background(), "flaky", bulkRecords("a", "b", "c"), BulkOptions{Parallel: true})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Len(t, outcome.Results, 3)
}

func TestExecuteBulk_GuardPerRecord(t *testing.T) {
	e := newTestEngine(nil)
	require.NoError(t, e.RegisterAction(&domain.ActionDefinition{
		Name:      "close",
		Kind:      domain.KindScript,
		Script:    "record.id",
		Condition: "record.id != 'skip'",
		Bulk:      true,
	}))

	records := []map[string]any{{"id": "a"}, {"id": "skip"}, {"id": "c"}}
	outcome, err := e.ExecuteBulk(context.Background(), "close", records, BulkOptions{ContinueOnError: true})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Equal(t, domain.ErrGuardUnmet.Error(), outcome.Results[1].Err)
}
