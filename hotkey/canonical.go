// Package hotkey turns global keyboard shortcuts into recording start/stop
// actions. It canonicalizes hotkey specs, runs the hold/toggle recording
// state machine, and binds its triggers to a hook.Hook.
package hotkey

import (
	"sort"
	"strings"
)

// Canonical modifier order for consistent hotkey strings.
var modifierOrder = []string{"ctrl", "alt", "shift", "win"}

var modifierSet = map[string]bool{
	"ctrl":  true,
	"alt":   true,
	"shift": true,
	"win":   true,
}

func normalizeToken(tok string) string {
	switch tok {
	case "windows", "left windows", "right windows":
		return "win"
	case "control":
		return "ctrl"
	}
	return tok
}

// Normalize rewrites a hotkey spec into its canonical form: modifiers first
// in ctrl<alt<shift<win order, then main keys alphabetically, all lowercase,
// duplicates collapsed, synonyms mapped ("windows" -> "win", "control" ->
// "ctrl"). Blank input is returned unchanged. Normalize is idempotent.
//
// Example: "r+win+ctrl" -> "ctrl+win+r"
func Normalize(spec string) string {
	if strings.TrimSpace(spec) == "" {
		return spec
	}

	var modifiers, mainKeys []string
	seenMod := make(map[string]bool)
	seenMain := make(map[string]bool)
	for _, p := range strings.Split(spec, "+") {
		tok := normalizeToken(strings.ToLower(strings.TrimSpace(p)))
		if modifierSet[tok] {
			if !seenMod[tok] {
				seenMod[tok] = true
				modifiers = append(modifiers, tok)
			}
		} else if !seenMain[tok] {
			seenMain[tok] = true
			mainKeys = append(mainKeys, tok)
		}
	}

	sort.Slice(modifiers, func(i, j int) bool {
		return modifierIndex(modifiers[i]) < modifierIndex(modifiers[j])
	})
	sort.Strings(mainKeys)

	return strings.Join(append(modifiers, mainKeys...), "+")
}

func modifierIndex(m string) int {
	for i, name := range modifierOrder {
		if name == m {
			return i
		}
	}
	return len(modifierOrder)
}

// Validate checks the shape of a hotkey spec and returns (ok, reason). A
// valid spec has at least two keys and includes at least one modifier:
// either modifier+key ("ctrl+r") or multiple modifiers ("ctrl+win").
func Validate(spec string) (bool, string) {
	if strings.TrimSpace(spec) == "" {
		return false, "hotkey cannot be empty"
	}

	parts := strings.Split(spec, "+")
	if len(parts) < 2 {
		return false, "hotkey must have at least two keys"
	}

	var modifiers, mainKeys int
	for _, p := range parts {
		tok := normalizeToken(strings.ToLower(strings.TrimSpace(p)))
		if modifierSet[tok] {
			modifiers++
		} else {
			mainKeys++
		}
	}

	if modifiers == 0 {
		return false, "hotkey must include at least one modifier (ctrl, alt, shift, or win)"
	}
	if mainKeys == 0 && modifiers < 2 {
		return false, "hotkey must have at least two keys (modifier+key or multiple modifiers)"
	}

	return true, ""
}

// Conflicts reports whether two specs resolve to the same canonical form.
// Blank specs never conflict.
func Conflicts(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return Normalize(a) == Normalize(b)
}

// Keys splits a spec into its constituent key tokens with windows-key
// variants folded to "win", for per-key release monitoring.
func Keys(spec string) []string {
	parts := strings.Split(spec, "+")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := strings.ToLower(strings.TrimSpace(p))
		switch tok {
		case "windows", "left windows", "right windows":
			tok = "win"
		case "":
			continue
		}
		keys = append(keys, tok)
	}
	return keys
}
