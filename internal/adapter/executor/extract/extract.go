// Package extract pulls structured fields out of interpretation text. The
// oracle returns either a JSON document, prose with an embedded JSON block,
// or free text, so every accessor here is tolerant: callers always get a
// usable value or a clear miss, never an error.
package extract

import (
	"encoding/json"
	"strings"
)

// JSONBlock attempts to parse a JSON object out of the text. It accepts the
// whole text being JSON as well as a JSON block embedded in prose (the span
// from the first '{' to the last '}').
func JSONBlock(text string) (map[string]any, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// String returns the first non-empty string value under any of the keys.
func String(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// StringList returns the values under the first matching key, accepting a
// single string, a list of strings, or a mixed list.
func StringList(fields map[string]any, keys ...string) []string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return []string{v}
			}
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// Number returns the first numeric value under any of the keys. Numeric
// strings are accepted too, since the oracle is inconsistent about quoting.
func Number(fields map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case float64:
			return v, true
		case string:
			var n float64
			if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
