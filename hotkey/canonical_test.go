package hotkey

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		// simple modifier+key combos
		{"ctrl+r", "ctrl+r"},
		{"alt+x", "alt+x"},
		{"shift+a", "shift+a"},
		// main key comes after modifiers
		{"r+ctrl", "ctrl+r"},
		{"x+alt+ctrl", "ctrl+alt+x"},
		// canonical modifier order: ctrl, alt, shift, win
		{"shift+ctrl+alt+win+x", "ctrl+alt+shift+win+x"},
		{"win+shift+alt+ctrl+x", "ctrl+alt+shift+win+x"},
		// windows-key variants fold to "win"
		{"windows+ctrl", "ctrl+win"},
		{"left windows+alt", "alt+win"},
		{"right windows+shift", "shift+win"},
		// "control" folds to "ctrl"
		{"control+r", "ctrl+r"},
		// duplicates removed
		{"ctrl+ctrl+r", "ctrl+r"},
		{"ctrl+r+r", "ctrl+r"},
		// multiple main keys sorted alphabetically
		{"ctrl+b+a", "ctrl+a+b"},
		// case-insensitive
		{"CTRL+R", "ctrl+r"},
		{"Ctrl+Win+X", "ctrl+win+x"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeReorderingsAgree(t *testing.T) {
	const want = "ctrl+win+r"
	for _, in := range []string{"ctrl+win+r", "win+ctrl+r", "r+win+ctrl", "r+ctrl+win", "R+CTRL+WIN"} {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeBlankUnchanged(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want \"\"", got)
	}
	if got := Normalize("   "); got != "   " {
		t.Errorf("Normalize(\"   \") = %q, want unchanged whitespace", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "   ", "r", "ctrl", "ctrl+r", "r+win+ctrl", "R+CTRL+WIN",
		"windows+control", "ctrl+ctrl+r+r", "shift+ctrl+alt+win+x",
		"ctrl+b+a", "left windows+alt",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		in     string
		ok     bool
		reason string // substring of the expected reason, "" when valid
	}{
		{"ctrl+r", true, ""},
		{"ctrl+shift+r", true, ""},
		{"ctrl+win", true, ""},
		{"ctrl+shift", true, ""},
		{"", false, "empty"},
		{"   ", false, "empty"},
		{"r", false, "two keys"},
		{"ctrl", false, "two keys"},
		{"a+b", false, "modifier"},
	}
	for _, c := range cases {
		ok, reason := Validate(c.in)
		if ok != c.ok {
			t.Errorf("Validate(%q) ok = %v, want %v (reason %q)", c.in, ok, c.ok, reason)
			continue
		}
		if !ok && !strings.Contains(strings.ToLower(reason), c.reason) {
			t.Errorf("Validate(%q) reason = %q, want substring %q", c.in, reason, c.reason)
		}
		if ok && reason != "" {
			t.Errorf("Validate(%q) reason = %q, want empty", c.in, reason)
		}
	}
}

func TestConflicts(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"ctrl+r", "ctrl+r", true},
		{"ctrl+win+r", "win+ctrl+r", true},
		{"r+ctrl+win", "ctrl+win+r", true},
		{"ctrl+win", "ctrl+windows", true},
		{"ctrl+r", "ctrl+t", false},
		{"ctrl+win", "ctrl+shift+win", false},
		{"", "ctrl+r", false},
		{"ctrl+r", "", false},
	}
	for _, c := range cases {
		if got := Conflicts(c.a, c.b); got != c.want {
			t.Errorf("Conflicts(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestKeys(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"ctrl+win", []string{"ctrl", "win"}},
		{"ctrl+windows", []string{"ctrl", "win"}},
		{"Left Windows+Alt", []string{"win", "alt"}},
		{"ctrl+shift+r", []string{"ctrl", "shift", "r"}},
	}
	for _, c := range cases {
		got := Keys(c.in)
		if len(got) != len(c.want) {
			t.Errorf("Keys(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Keys(%q) = %v, want %v", c.in, got, c.want)
				break
			}
		}
	}
}
