// Package coerce turns loosely typed JSON values into numbers, booleans and
// strings without ever inventing a value: every numeric helper reports whether
// a finite number was actually present.
package coerce

import (
	"math"
	"strconv"
	"strings"
)

// Number coerces v into a finite float64. Strings may use a comma as decimal
// separator. Booleans, composites, empty strings and non-finite values report
// false.
func Number(v any) (float64, bool) {
	switch value := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(value)
	case float32:
		return finite(float64(value))
	case int:
		return float64(value), true
	case int8:
		return float64(value), true
	case int16:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint:
		return float64(value), true
	case uint8:
		return float64(value), true
	case uint16:
		return float64(value), true
	case uint32:
		return float64(value), true
	case uint64:
		return float64(value), true
	case interface{ Float64() (float64, error) }:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	case string:
		return parseNumber(value)
	default:
		return 0, false
	}
}

// NumberOr returns the first candidate that coerces to a finite number, or 0.
// It is meant for display values where a missing number reads as zero.
func NumberOr(values ...any) float64 {
	for _, value := range values {
		if n, ok := Number(value); ok {
			return n
		}
	}
	return 0
}

// Bool treats true, positive numbers and the words true, yes, 1, injured,
// suspended and active as true.
func Bool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "yes", "1", "injured", "suspended", "active":
			return true
		}
		return false
	default:
		n, ok := Number(v)
		return ok && n > 0
	}
}

// String returns trimmed scalar text. Objects and arrays yield "".
func String(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case bool:
		return strconv.FormatBool(value)
	case map[string]any, []any:
		return ""
	}
	if n, ok := Number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// Object returns v as a JSON object when it is one.
func Object(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

// Array returns v as a JSON array when it is one.
func Array(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// Lookup resolves a dotted path such as "stats.season_sums" through nested
// objects.
func Lookup(obj map[string]any, path string) (any, bool) {
	if obj == nil || path == "" {
		return nil, false
	}
	if !strings.Contains(path, ".") {
		value, ok := obj[path]
		return value, ok
	}

	var current any = obj
	for _, part := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// PickFirst returns the value of the first key (or dotted path) holding
// something other than null or an empty string.
func PickFirst(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		value, ok := Lookup(obj, key)
		if !ok || value == nil {
			continue
		}
		if text, isText := value.(string); isText && strings.TrimSpace(text) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

// PickString returns the text of the first key holding a non-empty scalar.
// Objects and arrays are passed over.
func PickString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := Lookup(obj, key)
		if !ok {
			continue
		}
		if text := String(value); text != "" {
			return text
		}
	}
	return ""
}

// PickNumber returns the first key whose value coerces to a finite number.
func PickNumber(obj map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		value, ok := Lookup(obj, key)
		if !ok {
			continue
		}
		if n, ok := Number(value); ok {
			return n, true
		}
	}
	return 0, false
}

// HasAny reports whether any key holds a non-null value.
func HasAny(obj map[string]any, keys ...string) bool {
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			return true
		}
	}
	return false
}

// Rank returns n as a positive whole number when ok. Fractional, non-positive
// and out-of-range values yield nil.
func Rank(n float64, ok bool) *int {
	if !ok || n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
		return nil
	}
	r := int(n)
	return &r
}

// Ptr returns a pointer to n when ok, nil otherwise.
func Ptr(n float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &n
}

func parseNumber(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}
	text = strings.Replace(text, ",", ".", 1)
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return finite(parsed)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
