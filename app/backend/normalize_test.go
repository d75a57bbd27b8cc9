package backend

import (
	"math"
	"testing"
	"time"
)

func TestNumberValue(t *testing.T) {
	cases := []struct {
		name     string
		input    any
		fallback float64
		want     float64
	}{
		{"json number", 12.5, 0, 12.5},
		{"numeric string", "3.25", 0, 3.25},
		{"non-numeric string", "abc", 0, 0},
		{"nil", nil, 0, 0},
		{"bool true", true, 0, 1},
		{"bool false", false, 5, 0},
		{"object", map[string]any{}, 7, 7},
		{"nan", math.NaN(), 4, 4},
		{"infinity", math.Inf(1), 4, 4},
		{"fallback used", "nope", 9, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := numberValue(tc.input, tc.fallback); got != tc.want {
				t.Errorf("numberValue(%v, %v) = %v, want %v", tc.input, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestStringValue(t *testing.T) {
	if got := stringValue("hello", ""); got != "hello" {
		t.Errorf("got %q", got)
	}
	// Non-strings are never coerced
	if got := stringValue(42.0, "fb"); got != "fb" {
		t.Errorf("got %q, want fallback", got)
	}
	if got := stringValue(nil, ""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTimestampValueSubstitutesNow(t *testing.T) {
	if got := timestampValue("2025-03-01T10:00:00Z"); got != "2025-03-01T10:00:00Z" {
		t.Errorf("got %q", got)
	}

	// Missing or empty timestamps are replaced with the current time
	before := time.Now().UTC().Add(-time.Second)
	got := timestampValue(nil)
	parsed, err := time.Parse(time.RFC3339, got)
	if err != nil {
		t.Fatalf("substituted timestamp %q is not RFC3339: %v", got, err)
	}
	if parsed.Before(before) {
		t.Errorf("substituted timestamp %v is not recent", parsed)
	}

	if got := timestampValue(""); got == "" {
		t.Error("empty timestamp was not substituted")
	}
}

func TestFirstPresentPrefersEarlierAlias(t *testing.T) {
	m := map[string]any{
		"quantityToday":  10.0,
		"quantity_today": 20.0,
	}
	// camelCase listed first wins when both spellings are present
	if got := pickNumber(m, 0, "quantityToday", "quantity_today"); got != 10 {
		t.Errorf("got %v, want camelCase value 10", got)
	}

	delete(m, "quantityToday")
	if got := pickNumber(m, 0, "quantityToday", "quantity_today"); got != 20 {
		t.Errorf("got %v, want snake_case value 20", got)
	}
}

func TestFirstPresentSkipsNull(t *testing.T) {
	m := map[string]any{"minThreshold": nil, "min_threshold": 3.0}
	if got := pickNumber(m, 0, "minThreshold", "min_threshold"); got != 3 {
		t.Errorf("got %v, want 3 from snake_case after null camelCase", got)
	}
}

func TestAsSliceNonArray(t *testing.T) {
	if got := asSlice("not an array"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := asSlice(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestStringSliceFiltersNonStrings(t *testing.T) {
	got := stringSlice([]any{"weekend", 3.0, "holiday", nil})
	if len(got) != 2 || got[0] != "weekend" || got[1] != "holiday" {
		t.Errorf("got %v", got)
	}
}
