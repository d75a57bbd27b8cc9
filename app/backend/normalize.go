package backend

import (
	"math"
	"strconv"
	"time"
)

// The remote service is inconsistent about field casing: the same field can
// arrive as "minThreshold" or "min_threshold" depending on which backend
// version answered. Every mapper resolves fields through firstPresent with
// the camelCase alias listed first so both spellings land on the same
// canonical value and the rules cannot drift between entities.

// firstPresent returns the value of the first key present in m
func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := m[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// stringValue passes v through only if it actually is a string
func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// numberValue coerces v to a finite float64, mirroring a loose numeric
// parse: JSON numbers pass through, numeric strings are parsed, booleans
// collapse to 0/1. Anything else, including NaN and infinities, becomes the
// fallback.
func numberValue(v any, fallback float64) float64 {
	var parsed float64
	switch value := v.(type) {
	case float64:
		parsed = value
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fallback
		}
		parsed = f
	case bool:
		if value {
			return 1
		}
		return 0
	default:
		return fallback
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fallback
	}
	return parsed
}

// boolValue reads a boolean with a fallback for absent or non-bool values
func boolValue(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// timestampValue keeps non-empty timestamp strings and substitutes the
// current time for everything else. Callers must not rely on a normalized
// timestamp reflecting server truth: a missing one is silently replaced.
func timestampValue(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// pickString resolves a dual-case string field
func pickString(m map[string]any, fallback string, keys ...string) string {
	v, _ := firstPresent(m, keys...)
	return stringValue(v, fallback)
}

// pickNumber resolves a dual-case numeric field
func pickNumber(m map[string]any, fallback float64, keys ...string) float64 {
	v, _ := firstPresent(m, keys...)
	return numberValue(v, fallback)
}

// pickTimestamp resolves a dual-case timestamp field
func pickTimestamp(m map[string]any, keys ...string) string {
	v, _ := firstPresent(m, keys...)
	return timestampValue(v)
}

// asMap returns v as an object, or nil when it is anything else
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asSlice returns v as an array. A non-array collection field normalizes to
// an empty sequence, never to an error.
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// stringSlice keeps only the string elements of an array value
func stringSlice(v any) []string {
	items := asSlice(v)
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
