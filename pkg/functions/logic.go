package functions

import "fmt"

func fnIf(args ...any) (any, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("IF expects (condition, then[, else]), got %d arguments", len(args))
	}
	if Truthy(args[0]) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return nil, nil
}

func fnAnd(args ...any) (any, error) {
	for _, v := range args {
		if !Truthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func fnOr(args ...any) (any, error) {
	for _, v := range args {
		if Truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

func fnNot(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("NOT expects 1 argument, got %d", len(args))
	}
	return !Truthy(args[0]), nil
}

// SWITCH(expr, k1, v1, k2, v2, ..., [default]) returns the value paired with
// the first matching key, the trailing odd argument as default, or nil.
func fnSwitch(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("SWITCH expects at least 1 argument")
	}
	subject := args[0]
	rest := args[1:]

	var def any
	hasDefault := len(rest)%2 == 1
	if hasDefault {
		def = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}

	for i := 0; i+1 < len(rest); i += 2 {
		if looseEqual(subject, rest[i]) {
			return rest[i+1], nil
		}
	}
	if hasDefault {
		return def, nil
	}
	return nil, nil
}
