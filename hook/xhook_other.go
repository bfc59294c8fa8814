//go:build !linux && !windows

package hook

import (
	"fmt"
	"strings"
	"sync"

	"golang.design/x/hotkey"
)

var xModifiers = map[string]hotkey.Modifier{
	"ctrl":          hotkey.ModCtrl,
	"control":       hotkey.ModCtrl,
	"shift":         hotkey.ModShift,
	"alt":           hotkey.ModOption,
	"win":           hotkey.ModCmd,
	"windows":       hotkey.ModCmd,
	"left windows":  hotkey.ModCmd,
	"right windows": hotkey.ModCmd,
}

var xKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"space": hotkey.KeySpace, "enter": hotkey.KeyReturn,
	"return": hotkey.KeyReturn, "esc": hotkey.KeyEscape,
	"escape": hotkey.KeyEscape, "tab": hotkey.KeyTab,
	"delete": hotkey.KeyDelete,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

type xCombo struct {
	tokens []string
	hk     *hotkey.Hotkey
}

type xHook struct {
	mu       sync.Mutex
	combos   []*xCombo
	releases map[string][]func()
	down     map[string]bool
	stop     chan struct{}
}

// New creates a hook using golang.design/x/hotkey (Cocoa/X11 registered
// hotkeys). The platform only reports whole-combination keydown/keyup, so
// key-down state is tracked per registered combination: IsKeyDown answers
// from the last combo edge rather than the physical keyboard.
func New() Hook {
	return &xHook{
		releases: make(map[string][]func()),
		down:     make(map[string]bool),
	}
}

func (h *xHook) Subscribe(spec string, onPress func()) error {
	tokens := splitTokens(spec)
	if len(tokens) == 0 {
		return fmt.Errorf("empty hotkey spec")
	}

	var mods []hotkey.Modifier
	var key hotkey.Key
	hasKey := false
	for _, tok := range tokens {
		if m, ok := xModifiers[tok]; ok {
			mods = append(mods, m)
			continue
		}
		k, ok := xKeys[tok]
		if !ok {
			return fmt.Errorf("unknown key %q in spec %q", tok, spec)
		}
		if hasKey {
			return fmt.Errorf("spec %q has more than one main key", spec)
		}
		key = k
		hasKey = true
	}
	if !hasKey {
		return fmt.Errorf("modifier-only spec %q is not supported on this platform", spec)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return err
	}

	h.mu.Lock()
	if h.stop == nil {
		h.stop = make(chan struct{})
	}
	stop := h.stop
	c := &xCombo{tokens: tokens, hk: hk}
	h.combos = append(h.combos, c)
	h.mu.Unlock()

	go h.watch(c, onPress, stop)
	return nil
}

func (h *xHook) watch(c *xCombo, onPress func(), stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-c.hk.Keydown():
			h.markTokens(c.tokens, true)
			onPress()
		case <-c.hk.Keyup():
			h.markTokens(c.tokens, false)
			h.fireReleases(c.tokens)
		}
	}
}

func (h *xHook) markTokens(tokens []string, isDown bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, tok := range tokens {
		if isDown {
			h.down[tok] = true
		} else {
			delete(h.down, tok)
		}
	}
}

func (h *xHook) fireReleases(tokens []string) {
	h.mu.Lock()
	var fire []func()
	for _, tok := range tokens {
		fire = append(fire, h.releases[tok]...)
	}
	h.mu.Unlock()
	for _, fn := range fire {
		fn()
	}
}

func (h *xHook) SubscribeRelease(key string, onRelease func()) error {
	key = strings.TrimSpace(strings.ToLower(key))
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releases[key] = append(h.releases[key], onRelease)
	return nil
}

func (h *xHook) UnsubscribeAll() error {
	h.mu.Lock()
	combos := h.combos
	h.combos = nil
	h.releases = make(map[string][]func())
	h.down = make(map[string]bool)
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
	h.mu.Unlock()

	for _, c := range combos {
		c.hk.Unregister()
	}
	return nil
}

func (h *xHook) IsKeyDown(key string) bool {
	key = strings.TrimSpace(strings.ToLower(key))
	h.mu.Lock()
	defer h.mu.Unlock()
	if key == "win" || key == "windows" {
		return h.down["win"] || h.down["windows"]
	}
	return h.down[key]
}

// Diagnose checks hotkey availability and returns a status message.
func Diagnose() (string, error) {
	return "registered-hotkey support available", nil
}
