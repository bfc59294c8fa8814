//go:build windows

package hook

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procPeekMessage         = user32.NewProc("PeekMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	pmRemove     = 0x0001
)

const (
	vkShift = 0x10
	vkCtrl  = 0x11
	vkAlt   = 0x12
	vkLwin  = 0x5B
	vkRwin  = 0x5C
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type winMsg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// Each token maps to the virtual-key codes that count as that key.
var winVKCodes = map[string][]uint16{
	"ctrl":          {vkCtrl},
	"control":       {vkCtrl},
	"shift":         {vkShift},
	"alt":           {vkAlt},
	"win":           {vkLwin, vkRwin},
	"windows":       {vkLwin, vkRwin},
	"left windows":  {vkLwin},
	"right windows": {vkRwin},

	"a": {0x41}, "b": {0x42}, "c": {0x43}, "d": {0x44}, "e": {0x45},
	"f": {0x46}, "g": {0x47}, "h": {0x48}, "i": {0x49}, "j": {0x4A},
	"k": {0x4B}, "l": {0x4C}, "m": {0x4D}, "n": {0x4E}, "o": {0x4F},
	"p": {0x50}, "q": {0x51}, "r": {0x52}, "s": {0x53}, "t": {0x54},
	"u": {0x55}, "v": {0x56}, "w": {0x57}, "x": {0x58}, "y": {0x59},
	"z": {0x5A},

	"0": {0x30}, "1": {0x31}, "2": {0x32}, "3": {0x33}, "4": {0x34},
	"5": {0x35}, "6": {0x36}, "7": {0x37}, "8": {0x38}, "9": {0x39},

	"space": {0x20}, "enter": {0x0D}, "return": {0x0D},
	"esc": {0x1B}, "escape": {0x1B}, "tab": {0x09}, "backspace": {0x08},

	"f1": {0x70}, "f2": {0x71}, "f3": {0x72}, "f4": {0x73},
	"f5": {0x74}, "f6": {0x75}, "f7": {0x76}, "f8": {0x77},
	"f9": {0x78}, "f10": {0x79}, "f11": {0x7A}, "f12": {0x7B},
}

type winCombo struct {
	groups    [][]uint16
	satisfied bool
	onPress   func()
}

type winHook struct {
	mu        sync.Mutex
	combos    []*winCombo
	releases  map[uint16][]func()
	hook      uintptr
	done      chan struct{}
	installed bool
}

// New creates a hook backed by a WH_KEYBOARD_LL low-level keyboard hook.
func New() Hook {
	return &winHook{releases: make(map[uint16][]func())}
}

func (h *winHook) Subscribe(spec string, onPress func()) error {
	tokens := splitTokens(spec)
	if len(tokens) == 0 {
		return fmt.Errorf("empty hotkey spec")
	}
	groups := make([][]uint16, 0, len(tokens))
	for _, tok := range tokens {
		codes, ok := winVKCodes[tok]
		if !ok {
			return fmt.Errorf("unknown key %q in spec %q", tok, spec)
		}
		groups = append(groups, codes)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensureInstalledLocked(); err != nil {
		return err
	}
	h.combos = append(h.combos, &winCombo{groups: groups, onPress: onPress})
	return nil
}

func (h *winHook) SubscribeRelease(key string, onRelease func()) error {
	codes, ok := winVKCodes[strings.TrimSpace(strings.ToLower(key))]
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensureInstalledLocked(); err != nil {
		return err
	}
	for _, code := range codes {
		h.releases[code] = append(h.releases[code], onRelease)
	}
	return nil
}

func (h *winHook) UnsubscribeAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.combos = nil
	h.releases = make(map[uint16][]func())
	if !h.installed {
		return nil
	}
	close(h.done)
	h.installed = false
	r, _, err := procUnhookWindowsHookEx.Call(h.hook)
	h.hook = 0
	if r == 0 {
		return fmt.Errorf("UnhookWindowsHookEx failed: %w", err)
	}
	return nil
}

func (h *winHook) IsKeyDown(key string) bool {
	codes, ok := winVKCodes[strings.TrimSpace(strings.ToLower(key))]
	if !ok {
		return false
	}
	for _, code := range codes {
		if asyncKeyDown(code) {
			return true
		}
	}
	return false
}

func asyncKeyDown(vk uint16) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}

func (h *winHook) ensureInstalledLocked() error {
	if h.installed {
		return nil
	}
	h.done = make(chan struct{})

	resCh := make(chan installResult, 1)
	go h.runHook(h.done, resCh)
	res := <-resCh
	if res.err != nil {
		return res.err
	}
	h.hook = res.hook
	h.installed = true
	return nil
}

type installResult struct {
	hook uintptr
	err  error
}

func (h *winHook) runHook(done chan struct{}, resCh chan<- installResult) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hookProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			kbInfo := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			isDown := wParam == wmKeydown || wParam == wmSyskeydown
			h.handleKey(uint16(kbInfo.vkCode), isDown)
		}
		r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	hook, _, err := procSetWindowsHookEx.Call(
		whKeyboardLL,
		windows.NewCallback(hookProc),
		0,
		0,
	)
	if hook == 0 {
		resCh <- installResult{err: fmt.Errorf("SetWindowsHookEx failed: %w", err)}
		return
	}

	resCh <- installResult{hook: hook}

	// Low-level hooks need a message pump on the installing thread.
	var m winMsg
	for {
		select {
		case <-done:
			return
		default:
			r, _, _ := procPeekMessage.Call(
				uintptr(unsafe.Pointer(&m)),
				0,
				0,
				0,
				pmRemove,
			)
			if r != 0 {
				continue
			}
			runtime.Gosched()
		}
	}
}

func (h *winHook) handleKey(vk uint16, isDown bool) {
	var fire []func()

	h.mu.Lock()
	for _, c := range h.combos {
		// Re-check the full combination against the physical keyboard state
		// so modifier-only combos work regardless of event ordering.
		allDown := true
		for _, group := range c.groups {
			down := false
			for _, gc := range group {
				if asyncKeyDown(gc) {
					down = true
					break
				}
			}
			if !down {
				allDown = false
				break
			}
		}
		if allDown && !c.satisfied {
			c.satisfied = true
			if isDown {
				fire = append(fire, c.onPress)
			}
		} else if !allDown {
			c.satisfied = false
		}
	}

	if !isDown {
		fire = append(fire, h.releases[vk]...)
	}
	h.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Diagnose checks hook availability and returns a status message.
func Diagnose() (string, error) {
	if err := user32.Load(); err != nil {
		return "", fmt.Errorf("user32.dll unavailable: %w", err)
	}
	return "low-level keyboard hook available", nil
}
