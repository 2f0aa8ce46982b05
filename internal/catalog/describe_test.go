package catalog

import (
	"strings"
	"testing"
)

func TestFormatArtists(t *testing.T) {
	tests := []struct {
		name  string
		in    []string
		limit int
		want  string
	}{
		{"empty", nil, 4, ""},
		{"single", []string{"A"}, 4, "A"},
		{"pair", []string{"A", "B"}, 4, "A and B"},
		{"three", []string{"A", "B", "C"}, 4, "A, B and C"},
		{"at limit", []string{"A", "B", "C", "D"}, 4, "A, B, C and D"},
		{"over limit", []string{"A", "B", "C", "D", "E"}, 4, "A, B, C, and others"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatArtists(tt.in, tt.limit); got != tt.want {
				t.Errorf("FormatArtists(%v, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{65, "01:05"},
		{59.9, "00:59"},
		{0, "00:00"},
		{600, "10:00"},
		{3599, "59:59"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildDescription(t *testing.T) {
	desc := BuildDescription("Lonely Days", "en", []string{"A", "B"}, "Blue Album", 2020, 185, 4)

	if desc.About != "About Lonely Days" {
		t.Errorf("About = %q", desc.About)
	}

	want := "Listen to Lonely Days online. Lonely Days is a en language song " +
		"and is sung by A and B. Lonely Days, from the album Blue Album, " +
		"was released in the year 2020. The duration of the song is 03:05."
	if desc.Description != want {
		t.Errorf("Description mismatch!\n got %q\nwant %q", desc.Description, want)
	}

	if !strings.Contains(desc.Description, "03:05") {
		t.Errorf("expected formatted duration in description")
	}
}
