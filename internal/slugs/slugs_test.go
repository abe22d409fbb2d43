package slugs

import "testing"

func TestComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ranges", "ranges"},
		{"Date Tags", "date-tags"},
		{"date_tags", "date-tags"},
		{"Date-Tags.md", "date-tags"},
		{"  Expressions  ", "expressions"},
		{"Special: Characters!", "special-characters"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Component(tt.in); got != tt.want {
				t.Fatalf("Component(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"guide/Date Tags", "guide/date-tags"},
		{`guide\ranges.md`, "guide/ranges"},
		{"  guide//durations  ", "guide/durations"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Path(tt.in); got != tt.want {
				t.Fatalf("Path(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	if got := Title("date-tags"); got != "Date Tags" {
		t.Fatalf("Title() = %q", got)
	}
	if got := Title("---"); got != "---" {
		t.Fatalf("Title() = %q", got)
	}
}
