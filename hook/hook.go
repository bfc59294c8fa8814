// Package hook provides global key-hook access: combination press triggers,
// per-key release triggers, and a synchronous key-down query. Platform
// implementations live behind build tags; tests use the in-memory fake.
package hook

import "strings"

// Hook is the OS-level key-hook capability. Specs are canonical hotkey
// strings ("ctrl+win+r"); keys are single lowercase tokens. Callbacks are
// invoked on the hook's own notification goroutine and must not block.
type Hook interface {
	// Subscribe fires onPress each time the full combination becomes pressed.
	Subscribe(spec string, onPress func()) error
	// SubscribeRelease fires onRelease each time the given key is released.
	SubscribeRelease(key string, onRelease func()) error
	// UnsubscribeAll drops every subscription. The hook is reusable afterwards.
	UnsubscribeAll() error
	// IsKeyDown reports whether the key is physically held right now.
	IsKeyDown(key string) bool
}

func splitTokens(spec string) []string {
	parts := strings.Split(spec, "+")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
