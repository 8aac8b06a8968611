package functions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectql/actionflow/pkg/functions"
)

func call(t *testing.T, name string, args ...any) (any, error) {
	t.Helper()
	r := functions.NewWithBuiltins()
	fn, ok := r.Get(name)
	require.True(t, ok, "builtin %s not registered", name)
	return fn(args...)
}

func mustCall(t *testing.T, name string, args ...any) any {
	t.Helper()
	v, err := call(t, name, args...)
	require.NoError(t, err)
	return v
}

func TestAggregates(t *testing.T) {
	// Nested arrays flatten before reducing.
	assert.Equal(t, float64(6), mustCall(t, "SUM", []any{1, 2}, []any{3}))
	assert.Equal(t, float64(10), mustCall(t, "SUM", []any{1, []any{2, 3}}, 4))

	// Empty input conventions.
	assert.Equal(t, float64(0), mustCall(t, "AVG"))
	assert.Equal(t, float64(0), mustCall(t, "MIN"))
	assert.Equal(t, float64(0), mustCall(t, "MAX"))

	assert.Equal(t, float64(2), mustCall(t, "AVG", 1, 3))
	assert.Equal(t, float64(-5), mustCall(t, "MIN", 2, -5, 9))
	assert.Equal(t, float64(9), mustCall(t, "MAX", 2, -5, 9))

	// COUNT counts non-null values only.
	assert.Equal(t, 2, mustCall(t, "COUNT", 1, nil, 2, nil))
	assert.Equal(t, 3, mustCall(t, "COUNT", []any{1, nil, "a", true}))
}

func TestDateFunctions(t *testing.T) {
	today := mustCall(t, "TODAY").(string)
	_, err := time.Parse("2006-01-02", today)
	assert.NoError(t, err)

	now := mustCall(t, "NOW").(string)
	_, err = time.Parse(time.RFC3339, now)
	assert.NoError(t, err)
}

func TestDateAdd(t *testing.T) {
	v := mustCall(t, "DATEADD", "2025-01-01", 5, "days")
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), v)

	v = mustCall(t, "DATEADD", "2025-01-31", 1, "Month")
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), v)

	v = mustCall(t, "DATEADD", "2025-01-01", 2, "hours")
	assert.Equal(t, time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC), v)

	_, err := call(t, "DATEADD", "2025-01-01", 1, "weeks")
	assert.Error(t, err, "unsupported unit must signal an error")

	_, err = call(t, "DATEADD", "not-a-date", 1, "days")
	assert.Error(t, err, "unparsable date must signal an error")
}

func TestDateDiff(t *testing.T) {
	assert.Equal(t, 3, mustCall(t, "DATEDIFF", "2025-01-15", "2025-04-15", "months"))
	assert.Equal(t, 90, mustCall(t, "DATEDIFF", "2025-01-15", "2025-04-15", "days"))
	assert.Equal(t, 1, mustCall(t, "DATEDIFF", "2024-06-01", "2025-06-01", "years"))
	assert.Equal(t, 48, mustCall(t, "DATEDIFF", "2025-01-01", "2025-01-03", "hours"))

	_, err := call(t, "DATEDIFF", "2025-01-01", "2025-02-01", "fortnights")
	assert.Error(t, err)
}

func TestLogicFunctions(t *testing.T) {
	assert.Equal(t, "yes", mustCall(t, "IF", true, "yes", "no"))
	assert.Equal(t, "no", mustCall(t, "IF", 0, "yes", "no"))
	assert.Nil(t, mustCall(t, "IF", false, "yes"))

	assert.Equal(t, true, mustCall(t, "AND", true, 1, "x"))
	assert.Equal(t, false, mustCall(t, "AND", true, ""))
	assert.Equal(t, true, mustCall(t, "OR", false, 0, "x"))
	assert.Equal(t, false, mustCall(t, "OR", false, ""))
	assert.Equal(t, true, mustCall(t, "NOT", nil))
	assert.Equal(t, false, mustCall(t, "NOT", 42))
}

func TestSwitch(t *testing.T) {
	assert.Equal(t, "one", mustCall(t, "SWITCH", 1, 1, "one", 2, "two"))
	assert.Equal(t, "two", mustCall(t, "SWITCH", 2, 1, "one", 2, "two"))
	assert.Equal(t, "other", mustCall(t, "SWITCH", 3, 1, "one", 2, "two", "other"))
	assert.Nil(t, mustCall(t, "SWITCH", 3, 1, "one", 2, "two"))

	// Integer and float keys match loosely.
	assert.Equal(t, "one", mustCall(t, "SWITCH", float64(1), 1, "one"))
}

func TestStringFunctions(t *testing.T) {
	assert.Equal(t, "ab3", mustCall(t, "CONCAT", "a", "b", 3))
	assert.Equal(t, "a", mustCall(t, "CONCAT", "a", nil), "nil renders empty")

	assert.Equal(t, "he", mustCall(t, "LEFT", "hello", 2))
	assert.Equal(t, "lo", mustCall(t, "RIGHT", "hello", 2))
	assert.Equal(t, "hello", mustCall(t, "LEFT", "hello", 99))
	assert.Equal(t, "", mustCall(t, "LEFT", nil, 2))

	assert.Equal(t, "x", mustCall(t, "TRIM", "  x  "))
	assert.Equal(t, "ABC", mustCall(t, "UPPER", "abc"))
	assert.Equal(t, "abc", mustCall(t, "LOWER", "ABC"))
	assert.Equal(t, "", mustCall(t, "TRIM", nil))
}
