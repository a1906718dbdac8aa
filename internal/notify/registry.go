package notify

import (
	"sync"
	"time"
)

// timerRegistry tracks one pending expiry timer per key. Scheduling a key
// that already has a timer cancels the old one first, so a superseding
// notification never fires a stale expiry.
type timerRegistry struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{timers: make(map[string]*time.Timer)}
}

// schedule arranges fn to run after d, replacing any timer already pending
// for the key. fn runs on the timer goroutine exactly once unless cancelled.
func (r *timerRegistry) schedule(key string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[key]; ok {
		t.Stop()
	}
	r.timers[key] = time.AfterFunc(d, func() {
		r.mu.Lock()
		delete(r.timers, key)
		r.mu.Unlock()
		fn()
	})
}

// cancel stops the pending timer for key, if any, and reports whether one
// was pending.
func (r *timerRegistry) cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, key)
	return true
}

// stopAll cancels every pending timer. Used on shutdown.
func (r *timerRegistry) stopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, t := range r.timers {
		t.Stop()
		delete(r.timers, key)
	}
}

func (r *timerRegistry) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
