package cli

import (
	"strings"
	"testing"
)

func withColor(t *testing.T, on bool) {
	t.Helper()
	old := colorEnabled
	colorEnabled = on
	t.Cleanup(func() { colorEnabled = old })
}

func TestColorCodes(t *testing.T) {
	withColor(t, true)

	tests := []struct {
		name string
		fn   func(string) string
		code string
	}{
		{"Green", Green, "\033[32m"},
		{"Yellow", Yellow, "\033[33m"},
		{"Red", Red, "\033[31m"},
		{"Bold", Bold, "\033[1m"},
		{"Dim", Dim, "\033[2m"},
	}
	for _, tt := range tests {
		got := tt.fn("edge-sw1")
		if got != tt.code+"edge-sw1\033[0m" {
			t.Errorf("%s(edge-sw1) = %q", tt.name, got)
		}
	}
}

func TestColorDisabled(t *testing.T) {
	withColor(t, false)

	for _, fn := range []func(string) string{Green, Yellow, Red, Bold, Dim} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("color applied while disabled: %q", got)
		}
	}
}

func TestStatusCell(t *testing.T) {
	withColor(t, true)

	tests := []struct {
		status string
		code   string
	}{
		{"ok", "\033[32m"},
		{"up", "\033[32m"},
		{"partial", "\033[33m"},
		{"planned", "\033[33m"},
		{"failed", "\033[31m"},
		{"down", "\033[31m"},
		{"FAILED", "\033[31m"}, // case-insensitive
		{"wedged", "\033[2m"},
	}
	for _, tt := range tests {
		got := StatusCell(tt.status)
		if !strings.HasPrefix(got, tt.code) || !strings.Contains(got, tt.status) {
			t.Errorf("StatusCell(%q) = %q, want prefix %q", tt.status, got, tt.code)
		}
	}
}
