package persistence

import "strconv"

// Stored documents come back from encoding/json with float64 numbers and
// string keys; these helpers recover the int64 identifiers.

func docString(v any) string {
	s, _ := v.(string)
	return s
}

func docInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
