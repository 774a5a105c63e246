package ui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 0, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d): expected %q, got %q", tt.in, tt.width, tt.want, got)
		}
		if runewidth.StringWidth(got) > tt.width {
			t.Errorf("Truncate(%q, %d) is %d cells wide", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}

func TestJoinHorizontal(t *testing.T) {
	if got := JoinHorizontal(" | ", "a", "", "b"); got != "a | b" {
		t.Errorf("expected %q, got %q", "a | b", got)
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("light").Name != "light" || ThemeByName("nope").Name != "dark" {
		t.Error("unexpected theme lookup")
	}
}
