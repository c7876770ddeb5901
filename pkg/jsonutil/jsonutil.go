// Package jsonutil holds JSON helpers for payloads that arrive encoded
// more than once.
package jsonutil

import (
	"encoding/json"
	"strings"
)

// maxDepth bounds how many encoding layers are peeled off.
const maxDepth = 16

// ParseUntilUnescaped decodes s and keeps decoding while the result is a
// string that still carries escaped quotes once re-encoded. Malformed
// input yields an empty map. A decoded string that is not JSON itself is
// returned as is.
func ParseUntilUnescaped(s string) any {
	v, ok := parse(s, 0)
	if !ok {
		return map[string]any{}
	}
	return v
}

func parse(s string, depth int) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}

	inner, ok := v.(string)
	if !ok || depth >= maxDepth {
		return v, true
	}
	encoded, err := json.Marshal(inner)
	if err != nil || !strings.Contains(string(encoded), `\"`) {
		return v, true
	}
	if next, ok := parse(inner, depth+1); ok {
		return next, true
	}
	return v, true
}

// ParseObject is ParseUntilUnescaped narrowed to a JSON object. Anything
// else decodes to an empty map.
func ParseObject(s string) map[string]any {
	if m, ok := ParseUntilUnescaped(s).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
