package hotkey

import (
	"sync"
	"time"

	"reckey/hook"
	"reckey/log"
)

// Mode identifies which trigger is keeping a recording alive.
type Mode string

const (
	ModeNone   Mode = ""
	ModeHold   Mode = "hold"
	ModeToggle Mode = "toggle"
)

// DefaultMaxRecording caps any recording session; the safety timer force
// stops recording after this long even if the keys are never released.
const DefaultMaxRecording = 60 * time.Second

// Default hotkeys. Hold-to-record is on by default, press-to-toggle off.
const (
	DefaultHoldSpec   = "ctrl+win"
	DefaultToggleSpec = "ctrl+shift+win"
)

type state int

const (
	stateIdle state = iota
	stateHoldActive
	stateToggleActive
)

var winSynonyms = []string{"windows", "left windows", "right windows"}

// Service is the recording trigger service: it binds hold and toggle hotkeys
// to a hook.Hook and drives the caller's activate/deactivate callbacks.
// All methods are safe to call from any goroutine, including the hook's
// notification thread.
type Service struct {
	hk hook.Hook

	mu           sync.Mutex
	onActivate   func()
	onDeactivate func()

	st      state
	running bool

	holdSpec      string
	holdEnabled   bool
	toggleSpec    string
	toggleEnabled bool

	maxRecording time.Duration
	timer        *time.Timer
	timerGen     uint64
}

// NewService creates a stopped service with default hotkeys bound to hk.
func NewService(hk hook.Hook) *Service {
	return &Service{
		hk:            hk,
		holdSpec:      DefaultHoldSpec,
		holdEnabled:   true,
		toggleSpec:    DefaultToggleSpec,
		toggleEnabled: false,
		maxRecording:  DefaultMaxRecording,
	}
}

// SetCallbacks sets the recording callbacks. Each recording session invokes
// onActivate exactly once on start and onDeactivate exactly once on stop.
// Either may be nil.
func (s *Service) SetCallbacks(onActivate, onDeactivate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onActivate = onActivate
	s.onDeactivate = onDeactivate
}

// ConfigUpdate is a partial configuration change; nil fields are left
// unchanged. Specs are normalized when applied.
type ConfigUpdate struct {
	HoldSpec      *string
	HoldEnabled   *bool
	ToggleSpec    *string
	ToggleEnabled *bool
}

// Configure applies a partial update. If any effective field changes while
// the service is running, every hook subscription is torn down and rebuilt
// so the hook never holds a stale mapping; any active recording is hard
// reset (timer canceled, state Idle) without a deactivation callback.
func (s *Service) Configure(u ConfigUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needsRestart := false
	if u.HoldSpec != nil {
		if spec := Normalize(*u.HoldSpec); spec != s.holdSpec {
			s.holdSpec = spec
			needsRestart = true
		}
	}
	if u.HoldEnabled != nil && *u.HoldEnabled != s.holdEnabled {
		s.holdEnabled = *u.HoldEnabled
		needsRestart = true
	}
	if u.ToggleSpec != nil {
		if spec := Normalize(*u.ToggleSpec); spec != s.toggleSpec {
			s.toggleSpec = spec
			needsRestart = true
		}
	}
	if u.ToggleEnabled != nil && *u.ToggleEnabled != s.toggleEnabled {
		s.toggleEnabled = *u.ToggleEnabled
		needsRestart = true
	}

	if needsRestart && s.running {
		log.Info("hotkey configuration changed, re-registering hotkeys")
		s.unregisterLocked()
		s.cancelTimerLocked()
		s.st = stateIdle
		s.registerLocked()
	}
}

// Start begins listening for hotkeys. Calling Start on a running service is
// a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.registerLocked()
}

// Stop stops listening and hard resets any active recording: hooks are
// unsubscribed, the safety timer is canceled, and the state returns to idle
// without invoking the deactivation callback. Safe to call when never
// started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.unregisterLocked()
	s.cancelTimerLocked()
	s.st = stateIdle
}

// ForceDeactivate stops whichever recording mode is active. No-op when idle.
func (s *Service) ForceDeactivate() {
	log.Debug("force deactivate called")
	s.deactivateHold()
	s.deactivateToggle()
}

// IsRunning reports whether the service is listening for hotkeys.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// IsRecording reports whether a recording is active in either mode.
func (s *Service) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st != stateIdle
}

// ActiveMode returns the active recording mode, or ModeNone.
func (s *Service) ActiveMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.st {
	case stateHoldActive:
		return ModeHold
	case stateToggleActive:
		return ModeToggle
	}
	return ModeNone
}

// Hold mode handlers

func (s *Service) onHoldPress() {
	s.mu.Lock()
	if s.st != stateIdle {
		s.mu.Unlock()
		return // already recording in some mode
	}
	s.st = stateHoldActive
	s.startTimerLocked()
	cb := s.onActivate
	s.mu.Unlock()

	log.Info("hold hotkey activated")
	if cb != nil {
		cb()
	}
}

// checkHoldRelease runs on every release of a constituent key and
// deactivates hold mode once the combination is no longer fully held.
func (s *Service) checkHoldRelease() {
	s.mu.Lock()
	if s.st != stateHoldActive {
		s.mu.Unlock()
		return
	}
	keys := Keys(s.holdSpec)
	s.mu.Unlock()

	for _, key := range keys {
		if key == "win" {
			if s.hk.IsKeyDown("win") || s.hk.IsKeyDown("windows") {
				continue
			}
		} else if s.hk.IsKeyDown(key) {
			continue
		}
		log.Debugf("hold key released: %s", key)
		s.deactivateHold()
		return
	}
}

func (s *Service) deactivateHold() {
	s.mu.Lock()
	if s.st != stateHoldActive {
		s.mu.Unlock()
		return
	}
	s.st = stateIdle
	s.cancelTimerLocked()
	cb := s.onDeactivate
	s.mu.Unlock()

	log.Info("hold hotkey deactivated")
	if cb != nil {
		cb()
	}
}

// Toggle mode handlers

func (s *Service) onTogglePress() {
	s.mu.Lock()
	switch s.st {
	case stateHoldActive:
		s.mu.Unlock()
		return // hold mode wins, ignore toggle
	case stateToggleActive:
		s.mu.Unlock()
		s.deactivateToggle()
		return
	}
	s.st = stateToggleActive
	s.startTimerLocked()
	cb := s.onActivate
	s.mu.Unlock()

	log.Info("toggle hotkey activated, recording started")
	if cb != nil {
		cb()
	}
}

func (s *Service) deactivateToggle() {
	s.mu.Lock()
	if s.st != stateToggleActive {
		s.mu.Unlock()
		return
	}
	s.st = stateIdle
	s.cancelTimerLocked()
	cb := s.onDeactivate
	s.mu.Unlock()

	log.Info("toggle hotkey deactivated, recording stopped")
	if cb != nil {
		cb()
	}
}

// Safety timer

func (s *Service) startTimerLocked() {
	s.cancelTimerLocked()
	gen := s.timerGen
	s.timer = time.AfterFunc(s.maxRecording, func() { s.onMaxTimer(gen) })
}

// cancelTimerLocked bumps the generation so an already-fired timer callback
// becomes a no-op even if it lost the race to acquire the lock.
func (s *Service) cancelTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Service) onMaxTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	log.Infof("max recording time reached (%s)", s.maxRecording)
	s.deactivateHold()
	s.deactivateToggle()
}

// Hook registration

func (s *Service) registerLocked() {
	if s.holdEnabled && s.holdSpec != "" {
		s.registerHoldLocked()
	}
	if s.toggleEnabled && s.toggleSpec != "" {
		s.registerToggleLocked()
	}
}

func (s *Service) unregisterLocked() {
	if err := s.hk.UnsubscribeAll(); err != nil {
		log.Errorf("failed to unregister hotkeys: %v", err)
	}
}

func (s *Service) registerHoldLocked() {
	log.Infof("registering hold hotkey: %s", s.holdSpec)
	if err := s.hk.Subscribe(s.holdSpec, s.onHoldPress); err != nil {
		// Keep running with whatever did register.
		log.Errorf("failed to register hold hotkey %q: %v", s.holdSpec, err)
		return
	}

	// Monitor releases of every constituent key so letting go of any one of
	// them ends the recording.
	for _, key := range Keys(s.holdSpec) {
		if err := s.hk.SubscribeRelease(key, s.checkHoldRelease); err != nil {
			log.Warnf("failed to register release handler for %q: %v", key, err)
		}
		if key == "win" {
			for _, syn := range winSynonyms {
				if err := s.hk.SubscribeRelease(syn, s.checkHoldRelease); err != nil {
					log.Warnf("failed to register release handler for %q: %v", syn, err)
				}
			}
		}
	}
}

func (s *Service) registerToggleLocked() {
	log.Infof("registering toggle hotkey: %s", s.toggleSpec)
	if err := s.hk.Subscribe(s.toggleSpec, s.onTogglePress); err != nil {
		log.Errorf("failed to register toggle hotkey %q: %v", s.toggleSpec, err)
	}
}
