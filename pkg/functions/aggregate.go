package functions

func fnSum(args ...any) (any, error) {
	var sum float64
	for _, v := range flatten(args) {
		if n, ok := toNumber(v); ok {
			sum += n
		}
	}
	return sum, nil
}

func fnAvg(args ...any) (any, error) {
	var sum float64
	var count int
	for _, v := range flatten(args) {
		if n, ok := toNumber(v); ok {
			sum += n
			count++
		}
	}
	if count == 0 {
		return float64(0), nil
	}
	return sum / float64(count), nil
}

func fnMin(args ...any) (any, error) {
	var min float64
	found := false
	for _, v := range flatten(args) {
		if n, ok := toNumber(v); ok {
			if !found || n < min {
				min = n
			}
			found = true
		}
	}
	if !found {
		return float64(0), nil
	}
	return min, nil
}

func fnMax(args ...any) (any, error) {
	var max float64
	found := false
	for _, v := range flatten(args) {
		if n, ok := toNumber(v); ok {
			if !found || n > max {
				max = n
			}
			found = true
		}
	}
	if !found {
		return float64(0), nil
	}
	return max, nil
}

// COUNT counts non-nil values only.
func fnCount(args ...any) (any, error) {
	count := 0
	for _, v := range flatten(args) {
		if v != nil {
			count++
		}
	}
	return count, nil
}
