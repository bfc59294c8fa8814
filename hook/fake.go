package hook

import "sync"

// FakeHook is an in-memory Hook for tests. Simulated events run their
// callbacks synchronously on the caller's goroutine, mirroring how real
// providers deliver notifications on their own thread.
type FakeHook struct {
	mu               sync.Mutex
	press            map[string][]func()
	release          map[string][]func()
	down             map[string]bool
	subscribeErrs    map[string]error
	unsubscribeErr   error
	unsubscribeCalls int
}

func NewFake() *FakeHook {
	return &FakeHook{
		press:         make(map[string][]func()),
		release:       make(map[string][]func()),
		down:          make(map[string]bool),
		subscribeErrs: make(map[string]error),
	}
}

func (f *FakeHook) Subscribe(spec string, onPress func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.subscribeErrs[spec]; err != nil {
		return err
	}
	f.press[spec] = append(f.press[spec], onPress)
	return nil
}

func (f *FakeHook) SubscribeRelease(key string, onRelease func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.subscribeErrs[key]; err != nil {
		return err
	}
	f.release[key] = append(f.release[key], onRelease)
	return nil
}

func (f *FakeHook) UnsubscribeAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribeCalls++
	f.press = make(map[string][]func())
	f.release = make(map[string][]func())
	return f.unsubscribeErr
}

func (f *FakeHook) IsKeyDown(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.down[key]
}

// FailSubscribe makes future Subscribe/SubscribeRelease calls for the given
// spec or key return err.
func (f *FakeHook) FailSubscribe(specOrKey string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribeErrs[specOrKey] = err
}

// FailUnsubscribe makes UnsubscribeAll return err (subscriptions are still
// cleared, matching a partially failed teardown).
func (f *FakeHook) FailUnsubscribe(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribeErr = err
}

// SetKeyDown sets the simulated physical state of a single key.
func (f *FakeHook) SetKeyDown(key string, isDown bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if isDown {
		f.down[key] = true
	} else {
		delete(f.down, key)
	}
}

// SimPress invokes the press callbacks subscribed for spec.
func (f *FakeHook) SimPress(spec string) {
	f.mu.Lock()
	fns := append([]func(){}, f.press[spec]...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// SimRelease marks the key up and invokes its release callbacks.
func (f *FakeHook) SimRelease(key string) {
	f.mu.Lock()
	delete(f.down, key)
	fns := append([]func(){}, f.release[key]...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// PressSubs reports how many press callbacks are subscribed for spec.
func (f *FakeHook) PressSubs(spec string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.press[spec])
}

// ReleaseSubs reports how many release callbacks are subscribed for key.
func (f *FakeHook) ReleaseSubs(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.release[key])
}

// UnsubscribeCalls reports how many times UnsubscribeAll ran.
func (f *FakeHook) UnsubscribeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unsubscribeCalls
}
