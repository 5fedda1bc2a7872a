package input

import (
	"time"

	"github.com/lixenwraith/keyhold/terminal"
)

// keyState is the per-key inference state. Created lazily on first
// observation; lives for the tracker's lifetime.
type keyState struct {
	pressed     bool
	firstRepeat bool          // No repeat observed yet for the current press
	elapsed     time.Duration // Accumulated since last observed raw event; only meaningful while pressed
}

// Tracker infers press and release transitions from a stream of raw
// key-down events, using calibrated repeat timing to decide when silence
// means release. Pure state transitions, no I/O; owned by a single event
// loop, so no locking.
type Tracker struct {
	cal   Calibration
	hooks *Hooks
	keys  map[terminal.KeyCode]*keyState
}

// NewTracker creates a tracker firing into hooks using cal's thresholds.
// A nil hooks registry means every transition is a no-op.
func NewTracker(cal Calibration, hooks *Hooks) *Tracker {
	if hooks == nil {
		hooks = NewHooks()
	}
	return &Tracker{
		cal:   cal,
		hooks: hooks,
		keys:  make(map[terminal.KeyCode]*keyState),
	}
}

// Observe records one raw key-down event for code. The first event of a
// press fires the press hook; further events while pressed are repeats.
// Either way the key's silence counter restarts.
func (t *Tracker) Observe(code terminal.KeyCode) {
	st := t.keys[code]
	if st == nil {
		st = &keyState{}
		t.keys[code] = st
	}

	if !st.pressed {
		t.hooks.firePress(code)
		st.pressed = true
		st.firstRepeat = true
	} else {
		st.firstRepeat = false
	}
	st.elapsed = 0
}

// Tick advances every pressed key's silence counter by delta and fires a
// release for any key that has outlasted its threshold: the initial repeat
// delay if no repeat arrived yet for this press, the steady repeat interval
// otherwise.
func (t *Tracker) Tick(delta time.Duration) {
	for code, st := range t.keys {
		if !st.pressed {
			continue
		}
		st.elapsed += delta

		threshold := t.cal.RepeatInterval
		if st.firstRepeat {
			threshold = t.cal.InitialDelay
		}
		if st.elapsed > threshold {
			t.hooks.fireRelease(code)
			st.pressed = false
			st.firstRepeat = true
		}
	}
}

// Pressed reports whether code is currently inferred held.
func (t *Tracker) Pressed(code terminal.KeyCode) bool {
	st := t.keys[code]
	return st != nil && st.pressed
}
