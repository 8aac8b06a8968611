package functions

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q", d)
	default:
		return time.Time{}, fmt.Errorf("unparsable date %v (%T)", v, v)
	}
}

// normalizeUnit lower-cases and strips a trailing plural "s", so "Days" and
// "day" are equivalent.
func normalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	return strings.TrimSuffix(u, "s")
}

func fnToday(...any) (any, error) {
	return time.Now().UTC().Format("2006-01-02"), nil
}

func fnNow(...any) (any, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func fnDateAdd(args ...any) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("DATEADD expects (date, amount, unit), got %d arguments", len(args))
	}
	date, err := parseDate(args[0])
	if err != nil {
		return nil, err
	}
	amountF, ok := toNumber(args[1])
	if !ok {
		return nil, fmt.Errorf("DATEADD amount %v is not a number", args[1])
	}
	amount := int(amountF)

	unit, _ := args[2].(string)
	switch normalizeUnit(unit) {
	case "day":
		return date.AddDate(0, 0, amount), nil
	case "month":
		return date.AddDate(0, amount, 0), nil
	case "year":
		return date.AddDate(amount, 0, 0), nil
	case "hour":
		return date.Add(time.Duration(amount) * time.Hour), nil
	case "minute":
		return date.Add(time.Duration(amount) * time.Minute), nil
	default:
		return nil, fmt.Errorf("DATEADD: unsupported unit %q", unit)
	}
}

func fnDateDiff(args ...any) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("DATEDIFF expects (date1, date2, unit), got %d arguments", len(args))
	}
	from, err := parseDate(args[0])
	if err != nil {
		return nil, err
	}
	to, err := parseDate(args[1])
	if err != nil {
		return nil, err
	}

	unit, _ := args[2].(string)
	switch normalizeUnit(unit) {
	case "day":
		return int(to.Sub(from).Hours() / 24), nil
	case "month":
		return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()), nil
	case "year":
		return to.Year() - from.Year(), nil
	case "hour":
		return int(to.Sub(from).Hours()), nil
	case "minute":
		return int(to.Sub(from).Minutes()), nil
	default:
		return nil, fmt.Errorf("DATEDIFF: unsupported unit %q", unit)
	}
}
