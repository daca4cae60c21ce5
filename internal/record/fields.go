package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// present returns m[key] when the key exists and is not JSON null.
func present(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requiredString(m map[string]any, key, path string) (string, error) {
	v, ok := present(m, key)
	if !ok {
		return "", &MissingFieldError{Field: path}
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidFieldError{Field: path, Reason: "not a string"}
	}
	return s, nil
}

func optionalString(m map[string]any, key, path string, maxLen int) (*string, error) {
	v, ok := present(m, key)
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &InvalidFieldError{Field: path, Reason: "not a string"}
	}
	s = CleanText(s, maxLen)
	return &s, nil
}

func requiredID(m map[string]any, key, path string) (uint64, error) {
	v, ok := present(m, key)
	if !ok {
		return 0, &MissingFieldError{Field: path}
	}
	switch n := v.(type) {
	case json.Number:
		id, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return 0, &InvalidFieldError{Field: path, Reason: "not an unsigned 64-bit integer"}
		}
		return id, nil
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, &InvalidFieldError{Field: path, Reason: "not an unsigned 64-bit integer"}
		}
		return id, nil
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
			return 0, &InvalidFieldError{Field: path, Reason: "not an unsigned 64-bit integer"}
		}
		return uint64(n), nil
	}
	return 0, &InvalidFieldError{Field: path, Reason: "not a number"}
}

func optionalInt(m map[string]any, key, path string) (*int64, error) {
	v, ok := present(m, key)
	if !ok {
		return nil, nil
	}
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return &i, nil
		}
		parsed, err := n.Float64()
		if err != nil {
			return nil, &InvalidFieldError{Field: path, Reason: "not a number"}
		}
		f = parsed
	case float64:
		f = n
	default:
		return nil, &InvalidFieldError{Field: path, Reason: "not a number"}
	}
	if f != math.Trunc(f) {
		return nil, &InvalidFieldError{Field: path, Reason: "not an integer"}
	}
	// Saturate; out-of-range values are dropped by the caller.
	var i int64
	switch {
	case f >= math.MaxInt64:
		i = math.MaxInt64
	case f <= math.MinInt64:
		i = math.MinInt64
	default:
		i = int64(f)
	}
	return &i, nil
}

func optionalBool(m map[string]any, key, path string) (bool, error) {
	v, ok := present(m, key)
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &InvalidFieldError{Field: path, Reason: "not a boolean"}
	}
	return b, nil
}

func toFloat(v any, path string) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &InvalidFieldError{Field: path, Reason: "not a number"}
		}
		return f, nil
	case float64:
		return n, nil
	}
	return 0, &InvalidFieldError{Field: path, Reason: "not a number"}
}
