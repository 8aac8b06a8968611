// Package schema decodes declarative action definitions from YAML or JSON
// documents (or generic maps) into the typed domain model, and validates the
// result before it reaches the engine.
//
// The surrounding platform describes actions as loosely-typed documents; this
// package is the boundary where those documents become immutable
// domain.ActionDefinition values.
package schema
