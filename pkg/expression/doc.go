// Package expression evaluates template strings and conditions against a
// scoped variable context, using the restricted function registry.
//
// Expressions are compiled with expr-lang against an environment built from
// the flattened scopes plus the registry snapshot, and nothing else. There is
// no access to the process, the runtime, or arbitrary code execution:
// identifiers outside the environment fail compilation, so dangerous
// expressions are structurally unrepresentable rather than filtered.
package expression
