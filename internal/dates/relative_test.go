package dates

import (
	"testing"
	"time"
)

func TestNormalizeRelativeDateKeyword(t *testing.T) {
	if got, ok := NormalizeRelativeDateKeyword(" Today "); !ok || got != "today" {
		t.Fatalf("NormalizeRelativeDateKeyword(today) = %q, %v", got, ok)
	}
	if _, ok := NormalizeRelativeDateKeyword("this-week"); ok {
		t.Fatalf("expected this-week to be rejected")
	}
}

func TestResolveRelativeDateKeyword(t *testing.T) {
	now := time.Date(2026, time.March, 4, 14, 30, 0, 0, time.UTC) // Wednesday

	tests := map[string]string{
		"today":     "2026-03-04 00:00",
		"tomorrow":  "2026-03-05 00:00",
		"yesterday": "2026-03-03 00:00",
	}
	for keyword, want := range tests {
		got, ok := ResolveRelativeDateKeyword(keyword, now)
		if !ok {
			t.Fatalf("expected %s to resolve", keyword)
		}
		if FormatTimestamp(got) != want {
			t.Fatalf("%s resolved to %s, want %s", keyword, FormatTimestamp(got), want)
		}
	}

	if _, ok := ResolveRelativeDateKeyword("next week", now); ok {
		t.Fatalf("expected next week to be rejected")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input string
		want  time.Weekday
		ok    bool
	}{
		{"mon", time.Monday, true},
		{"Monday", time.Monday, true},
		{"tues", time.Tuesday, true},
		{"thurs", time.Thursday, true},
		{" SAT ", time.Saturday, true},
		{"su", 0, false},
		{"monsoon", 0, false},
		{"fridays", 0, false},
		{"tomorrow", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseWeekday(tt.input)
		if ok != tt.ok {
			t.Fatalf("ParseWeekday(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
