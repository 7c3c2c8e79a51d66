package model

import (
	"strconv"
	"strings"
)

// ToInt coerces a variant scalar to an int. Numeric strings are parsed;
// floats are truncated. The second return is false when the value cannot
// be coerced.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// ToFloat64 coerces a variant scalar to a float64. Percent signs and
// thousands separators in strings are tolerated.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Stringify renders a variant scalar as a string. Non-scalar values render
// as "". Integral floats drop the trailing ".0" so JSON-decoded numbers
// round-trip cleanly.
func Stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return Stringify(float64(s))
	default:
		return ""
	}
}

// IsScalar reports whether v is a scalar value (string, number, or bool).
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float32, float64:
		return true
	default:
		return false
	}
}
