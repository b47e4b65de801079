package fieldpath

import "strings"

// IsMissing decides whether a resolved value counts as empty under the one
// rule the report and projection features share.
//
// Arrays are missing only when zero-length: a one-element array holding an
// empty string is NOT missing. The asymmetry with the object rule is a
// deliberate product behavior, exercised consistently by the report views; see
// TestIsMissingArrayRule before changing it.
func IsMissing(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return objectEmpty(v)
	default:
		// numbers, booleans and anything exotic always count as filled
		return false
	}
}

// objectEmpty reports whether an object has no keys or only empty-valued ones.
// The per-value check is one level deep: a nested non-empty object makes the
// parent filled, and the nested object's own members are not descended into.
func objectEmpty(obj map[string]interface{}) bool {
	if len(obj) == 0 {
		return true
	}
	for _, v := range obj {
		switch inner := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(inner) != "" {
				return false
			}
		case map[string]interface{}:
			if len(inner) != 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
