package actionflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/objectql/actionflow"
	"github.com/objectql/actionflow/pkg/domain"
	"github.com/objectql/actionflow/pkg/schema"
	"github.com/objectql/actionflow/pkg/transaction"
)

// ExampleNew demonstrates executing a declarative action against a context.
func ExampleNew() {
	// 1. Create an engine seeded with the data the expressions will see.
	engine := actionflow.New(actionflow.WithContext(map[string]any{
		"record": map[string]any{"name": "ACME-1042", "amount": 250},
	}))

	// 2. Describe the action declaratively. Template regions (${...}) and the
	// script are evaluated against the engine context at execution time.
	def := &domain.ActionDefinition{
		Name:   "summarize",
		Kind:   domain.KindScript,
		Script: "CONCAT(record.name, ': ', record.amount * 2)",
	}

	// 3. Execute.
	result := engine.Execute(context.Background(), def)
	fmt.Println(result.Success, result.Data)
	// Output: true ACME-1042: 500
}

// ExampleNew_yaml registers an action parsed from YAML and fires it through
// its keyboard shortcut.
func ExampleNew_yaml() {
	engine := actionflow.New(actionflow.WithContext(map[string]any{
		"record": map[string]any{"id": "t7", "status": "open"},
	}))

	def, err := schema.ParseYAML([]byte(`
name: close_ticket
kind: script
script: "CONCAT('closing ', record.id)"
condition: "record.status == 'open'"
shortcut: Ctrl+K
`))
	if err != nil {
		log.Fatal(err)
	}
	if err := engine.RegisterAction(def); err != nil {
		log.Fatal(err)
	}

	// Shortcut matching is order- and case-insensitive.
	result := engine.HandleShortcut(context.Background(), "k+ctrl")
	fmt.Println(result.Data)
	// Output: closing t7
}

// ExampleEngine_ExecuteTransaction shows rollback: when a later action fails,
// side effects committed by earlier actions are undone.
func ExampleEngine_ExecuteTransaction() {
	engine := actionflow.New()
	manager := engine.Transactions()
	ctx := context.Background()

	engine.RegisterCustomHandler("save", func(ctx context.Context, def *domain.ActionDefinition, _ map[string]any) (*domain.ActionResult, error) {
		// Routing writes through the manager records them for rollback.
		rec, err := manager.Create(ctx, "tickets", map[string]any{"title": def.Name})
		if err != nil {
			return nil, err
		}
		return domain.Succeed(rec), nil
	})

	result := engine.ExecuteTransaction(ctx, transaction.Config{
		Actions: []*domain.ActionDefinition{
			{Name: "first", Kind: domain.KindCustom, Custom: "save"},
			{Name: "second", Kind: domain.KindScript, Script: "this_is_not_defined"},
		},
	})

	fmt.Println(result.Success, result.RolledBack)
	// Output: false true
}
