package functions

import (
	"fmt"
	"strings"
)

func fnConcat(args ...any) (any, error) {
	var b strings.Builder
	for _, v := range args {
		b.WriteString(toString(v))
	}
	return b.String(), nil
}

func fnLeft(args ...any) (any, error) {
	s, n, err := stringAndCount("LEFT", args)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n]), nil
}

func fnRight(args ...any) (any, error) {
	s, n, err := stringAndCount("RIGHT", args)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[len(runes)-n:]), nil
}

func stringAndCount(name string, args []any) (string, int, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("%s expects (text, count), got %d arguments", name, len(args))
	}
	s := toString(args[0])
	n, ok := toNumber(args[1])
	if !ok || n < 0 {
		return "", 0, fmt.Errorf("%s count %v is not a non-negative number", name, args[1])
	}
	return s, int(n), nil
}

func fnTrim(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TRIM expects 1 argument, got %d", len(args))
	}
	return strings.TrimSpace(toString(args[0])), nil
}

func fnUpper(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("UPPER expects 1 argument, got %d", len(args))
	}
	return strings.ToUpper(toString(args[0])), nil
}

func fnLower(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("LOWER expects 1 argument, got %d", len(args))
	}
	return strings.ToLower(toString(args[0])), nil
}
