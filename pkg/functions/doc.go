// Package functions provides the case-insensitive registry of pure functions
// exposed to expressions (aggregation, date, logic and string primitives).
//
// Functions are registered by name and injected into the expression evaluator
// via Snapshot. Built-ins follow spreadsheet conventions: aggregations flatten
// nested array arguments, string primitives are nil-safe, and the date helpers
// fail loudly on unparsable input instead of returning a silently wrong value.
package functions
