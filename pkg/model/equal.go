package model

// Equal reports structural equality of two JSON-shaped values. Numbers
// compare by numeric value regardless of Go kind, so a freshly parsed
// float64(3) equals int(3). Arrays compare elementwise in order; objects by
// key set and per-key equality.
func Equal(a, b any) bool {
	typeA, typeB := Infer(a), Infer(b)
	if typeA != typeB {
		return false
	}
	switch typeA {
	case TypeNull:
		return true
	case TypeBoolean:
		return a.(bool) == b.(bool)
	case TypeNumber:
		return asFloat(a) == asFloat(b)
	case TypeString:
		return a.(string) == b.(string)
	case TypeArray:
		listA, listB := a.([]any), b.([]any)
		if len(listA) != len(listB) {
			return false
		}
		for i := range listA {
			if !Equal(listA[i], listB[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		mapA, mapB := a.(map[string]any), b.(map[string]any)
		if len(mapA) != len(mapB) {
			return false
		}
		for key, valueA := range mapA {
			valueB, ok := mapB[key]
			if !ok || !Equal(valueA, valueB) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asFloat(value any) float64 {
	switch n := value.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
