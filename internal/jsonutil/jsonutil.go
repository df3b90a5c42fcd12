// Package jsonutil provides shared helpers for JSON parsing and for reading
// values out of opaque param bags (map[string]any) without panicking on
// missing or mistyped entries.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// GetString safely extracts a string value from a param bag.
// Returns the value if it's a string, otherwise returns empty string.
func GetString(m map[string]any, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetStringOr safely extracts a string value from a param bag with a
// default value if the key doesn't exist or isn't a string.
func GetStringOr(m map[string]any, key string, defaultValue string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return defaultValue
}

// GetInt safely extracts an integer from a param bag. JSON round trips
// store numbers as float64, so both int and float64 entries are accepted.
func GetInt(m map[string]any, key string) int {
	switch val := m[key].(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return 0
	}
}

// GetBool safely extracts a bool from a param bag; missing or mistyped
// entries yield false.
func GetBool(m map[string]any, key string) bool {
	if val, ok := m[key].(bool); ok {
		return val
	}
	return false
}

// ToString converts an any value to a string representation.
// Handles string, float64 (formatted as integer), bool, and other types.
func ToString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Format as integer for whole numbers, otherwise as float
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
