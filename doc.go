/*
Package actionflow is a declarative action execution engine: a sandboxed
expression evaluator feeding a per-action pipeline (guard, confirm, dispatch,
post-process, chain), composed into a transaction manager that provides
ordered rollback on partial failure, optimistic UI state tracking, and retry
with backoff for both transactions and bulk data operations.

It is a library boundary consumed by a schema-driven UI layer. Rendering,
schema modeling, authentication and the storage backend itself live outside;
they are reached through the capability interfaces in pkg/ports.

Basic usage:

	flow := actionflow.New(
		actionflow.WithDataSource(memory.NewStore()),
		actionflow.WithContext(map[string]any{"user": user}),
	)

	result := flow.Execute(ctx, &domain.ActionDefinition{
		Name:      "approve",
		Kind:      domain.KindScript,
		Condition: "record.status == 'pending'",
		Script:    "record.amount * 1.2",
	})

Transactions group actions with all-or-nothing rollback semantics:

	result := flow.ExecuteTransaction(ctx, transaction.Config{
		Actions:         defs,
		RetryOnConflict: true,
		MaxRetries:      2,
		RetryDelay:      100 * time.Millisecond,
	})
	if !result.Success && result.RolledBack {
		// failed, recorded side effects were undone
	}
*/
package actionflow
