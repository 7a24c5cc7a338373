// Package tree reads values out of decoded JSON documents (map[string]any,
// []any and scalars) without panicking on missing or mistyped nodes.
package tree

import (
	"encoding/json"
	"strconv"
)

// Lookup walks keys through nested objects. Any missing key or non-object
// intermediate returns def.
func Lookup(node any, def any, keys ...string) any {
	cur := node
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		next, ok := m[k]
		if !ok {
			return def
		}
		cur = next
	}
	return cur
}

// String is Lookup for text fields. JSON null gives def, numbers and bools are
// rendered as text, objects and arrays give def.
func String(node any, def string, keys ...string) string {
	switch v := Lookup(node, nil, keys...).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

// Float is Lookup for numeric fields. Non-numeric values give def.
func Float(node any, def float64, keys ...string) float64 {
	switch v := Lookup(node, nil, keys...).(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def
		}
		return f
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Int64 is Lookup for integer identifiers. Numeric strings are accepted.
func Int64(node any, def int64, keys ...string) int64 {
	switch v := Lookup(node, nil, keys...).(type) {
	case float64:
		return int64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return def
		}
		return i
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// List returns the array at keys, or nil if it is absent or not an array.
func List(node any, keys ...string) []any {
	l, _ := Lookup(node, nil, keys...).([]any)
	return l
}
