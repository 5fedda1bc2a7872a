// Package input infers discrete key press and release events from a
// terminal input stream that only ever reports key-down activity. A polling
// loop tracks per-key elapsed time and synthesizes a release once the gap
// since the last observed repeat exceeds a calibrated threshold.
package input

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/keyhold/terminal"
)

// DefaultSentinel is the end-of-transmission control byte (Ctrl+D); feeding
// it terminates the loop cleanly.
const DefaultSentinel byte = 0x04

// ErrPollTimeout means the configured or derived poll timeout is unusable:
// it must be positive and at most half the repeat interval, or timeout
// granularity itself becomes a release-detection error.
var ErrPollTimeout = errors.New("poll timeout must be positive and at most half the repeat interval")

// Source supplies key input to the event loop. *terminal.Session satisfies
// it; tests substitute a scripted source.
type Source interface {
	// Wait blocks until input is readable or timeout elapses, returning
	// false on timeout. Must never block unbounded for timeout >= 0.
	Wait(timeout time.Duration) (bool, error)

	// ReadKey returns the next key's raw byte sequence, or an empty code
	// if nothing was actually readable.
	ReadKey() (terminal.KeyCode, error)
}

// Config controls the polling event loop.
type Config struct {
	// PollTimeout bounds each wait so per-key timeout evaluation runs at a
	// bounded cadence. Zero selects RepeatInterval/4, floored at 1ms: small
	// against the repeat interval so detection granularity stays cheap,
	// without waking the loop excessively.
	PollTimeout time.Duration

	// Sentinel is the input byte that terminates the loop.
	// Zero selects DefaultSentinel.
	Sentinel byte
}

// pollTimeout resolves and validates the effective wait for cal.
func (c Config) pollTimeout(cal Calibration) (time.Duration, error) {
	d := c.PollTimeout
	if d == 0 {
		d = cal.RepeatInterval / 4
		if d < time.Millisecond {
			d = time.Millisecond
		}
	}
	if d <= 0 || d > cal.RepeatInterval/2 {
		return 0, fmt.Errorf("%w: %v with repeat interval %v", ErrPollTimeout, d, cal.RepeatInterval)
	}
	return d, nil
}

// Run drives the inference loop until the sentinel byte arrives: wait on
// src up to the poll timeout; on input, read one key and observe it; on
// timeout, advance every pressed key's silence counter. Wait and read
// failures are fatal and propagate without retry.
//
// Run owns the tracker for its duration. The caller owns the session
// backing src: acquire before, release after (deferred), so restoration
// runs on every exit path. Termination is cooperative only; with no
// sentinel input the loop runs forever.
func Run(src Source, tr *Tracker, cfg Config) error {
	timeout, err := cfg.pollTimeout(tr.cal)
	if err != nil {
		return err
	}

	sentinel := cfg.Sentinel
	if sentinel == 0 {
		sentinel = DefaultSentinel
	}

	for {
		ready, err := src.Wait(timeout)
		if err != nil {
			return err
		}

		if !ready {
			// Nothing arrived for a full timeout: charge it to every
			// pressed key and synthesize releases past threshold
			tr.Tick(timeout)
			continue
		}

		code, err := src.ReadKey()
		if err != nil {
			return err
		}
		if len(code) == 0 {
			continue // Spurious wakeup
		}
		if len(code) == 1 && code[0] == sentinel {
			return nil
		}
		tr.Observe(code)
	}
}
