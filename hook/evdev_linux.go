//go:build linux

package hook

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

// Each token maps to the evdev codes that count as that key. Modifiers
// accept either side of the keyboard.
var evdevCodes = map[string][]uint16{
	"ctrl":          {29, 97},
	"control":       {29, 97},
	"shift":         {42, 54},
	"alt":           {56, 100},
	"win":           {125, 126},
	"windows":       {125, 126},
	"left windows":  {125},
	"right windows": {126},

	"a": {30}, "b": {48}, "c": {46}, "d": {32}, "e": {18},
	"f": {33}, "g": {34}, "h": {35}, "i": {23}, "j": {36},
	"k": {37}, "l": {38}, "m": {50}, "n": {49}, "o": {24},
	"p": {25}, "q": {16}, "r": {19}, "s": {31}, "t": {20},
	"u": {22}, "v": {47}, "w": {17}, "x": {45}, "y": {21}, "z": {44},

	"1": {2}, "2": {3}, "3": {4}, "4": {5}, "5": {6},
	"6": {7}, "7": {8}, "8": {9}, "9": {10}, "0": {11},

	"space": {57}, "enter": {28}, "return": {28},
	"esc": {1}, "escape": {1}, "tab": {15}, "backspace": {14},

	"f1": {59}, "f2": {60}, "f3": {61}, "f4": {62}, "f5": {63},
	"f6": {64}, "f7": {65}, "f8": {66}, "f9": {67}, "f10": {68},
	"f11": {87}, "f12": {88},
}

type evdevCombo struct {
	groups    [][]uint16
	satisfied bool
	onPress   func()
}

type evdevHook struct {
	mu        sync.Mutex
	combos    []*evdevCombo
	releases  map[uint16][]func()
	pressed   map[uint16]bool
	files     []*os.File
	stop      chan struct{}
	listening bool
}

// New creates a hook that reads /dev/input directly.
// Requires the user to be in the 'input' group.
func New() Hook {
	return &evdevHook{
		releases: make(map[uint16][]func()),
		pressed:  make(map[uint16]bool),
	}
}

func (h *evdevHook) Subscribe(spec string, onPress func()) error {
	tokens := splitTokens(spec)
	if len(tokens) == 0 {
		return fmt.Errorf("empty hotkey spec")
	}
	groups := make([][]uint16, 0, len(tokens))
	for _, tok := range tokens {
		codes, ok := evdevCodes[tok]
		if !ok {
			return fmt.Errorf("unknown key %q in spec %q", tok, spec)
		}
		groups = append(groups, codes)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensureListeningLocked(); err != nil {
		return err
	}
	h.combos = append(h.combos, &evdevCombo{groups: groups, onPress: onPress})
	return nil
}

func (h *evdevHook) SubscribeRelease(key string, onRelease func()) error {
	codes, ok := evdevCodes[strings.TrimSpace(strings.ToLower(key))]
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensureListeningLocked(); err != nil {
		return err
	}
	for _, code := range codes {
		h.releases[code] = append(h.releases[code], onRelease)
	}
	return nil
}

func (h *evdevHook) UnsubscribeAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.combos = nil
	h.releases = make(map[uint16][]func())
	h.pressed = make(map[uint16]bool)
	if h.listening {
		close(h.stop)
		for _, f := range h.files {
			f.Close()
		}
		h.files = nil
		h.listening = false
	}
	return nil
}

func (h *evdevHook) IsKeyDown(key string) bool {
	codes, ok := evdevCodes[strings.TrimSpace(strings.ToLower(key))]
	if !ok {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, code := range codes {
		if h.pressed[code] {
			return true
		}
	}
	return false
}

func (h *evdevHook) ensureListeningLocked() error {
	if h.listening {
		return nil
	}

	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	h.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f, h.stop)
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	h.listening = true
	return nil
}

func (h *evdevHook) readEvents(f *os.File, stop chan struct{}) {
	buf := make([]byte, inputEventSize*16)

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey || evValue == keyRepeat {
				continue
			}
			h.handleKey(evCode, evValue == keyPress)
		}
	}
}

func (h *evdevHook) handleKey(code uint16, isDown bool) {
	var fire []func()

	h.mu.Lock()
	if isDown {
		h.pressed[code] = true
	} else {
		delete(h.pressed, code)
	}

	for _, c := range h.combos {
		allDown := true
		for _, group := range c.groups {
			down := false
			for _, gc := range group {
				if h.pressed[gc] {
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
			fire = append(fire, c.onPress)
		} else if !allDown {
			c.satisfied = false
		}
	}

	if !isDown {
		fire = append(fire, h.releases[code]...)
	}
	h.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", e.Name())
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, path)
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
