package input

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/keyhold/terminal"
)

// scriptStep is one Wait outcome for the scripted source. ready with a code
// means the next ReadKey returns it; readErr is returned by ReadKey.
type scriptStep struct {
	ready   bool
	code    terminal.KeyCode
	waitErr error
	readErr error
}

// scriptedSource replays a fixed sequence of poll outcomes
type scriptedSource struct {
	t       *testing.T
	steps   []scriptStep
	i       int
	current scriptStep
}

func (s *scriptedSource) Wait(timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		s.t.Fatalf("Wait called with non-positive timeout %v", timeout)
	}
	if s.i >= len(s.steps) {
		s.t.Fatal("Wait called past end of script")
	}
	s.current = s.steps[s.i]
	s.i++
	if s.current.waitErr != nil {
		return false, s.current.waitErr
	}
	return s.current.ready, nil
}

func (s *scriptedSource) ReadKey() (terminal.KeyCode, error) {
	if s.current.readErr != nil {
		return "", s.current.readErr
	}
	return s.current.code, nil
}

func event(code terminal.KeyCode) scriptStep { return scriptStep{ready: true, code: code} }
func timeout() scriptStep                    { return scriptStep{} }

var sentinelStep = scriptStep{ready: true, code: terminal.KeyEOT}

// TestRunSentinelExits verifies the sentinel returns cleanly without
// firing hooks for still-pressed keys
func TestRunSentinelExits(t *testing.T) {
	hooks, presses, releases := countingHooks()
	tr := NewTracker(testCalibration(), hooks)
	src := &scriptedSource{t: t, steps: []scriptStep{
		event(keyX),
		timeout(),
		sentinelStep,
	}}

	if err := Run(src, tr, Config{}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if *presses != 1 {
		t.Errorf("Expected 1 press before sentinel, got %d", *presses)
	}
	if *releases != 0 {
		t.Errorf("Expected no release on sentinel exit, got %d", *releases)
	}
	if !tr.Pressed(keyX) {
		t.Error("Expected key still marked pressed after sentinel exit")
	}
}

// TestRunTimeoutTicksToRelease verifies accumulated poll timeouts cross the
// initial delay and synthesize a release
func TestRunTimeoutTicksToRelease(t *testing.T) {
	hooks, _, releases := countingHooks()
	tr := NewTracker(testCalibration(), hooks)

	// Default poll timeout is 40ms/4 = 10ms; 31 timeouts pass 300ms
	steps := []scriptStep{event(keyX)}
	for i := 0; i < 31; i++ {
		steps = append(steps, timeout())
	}
	steps = append(steps, sentinelStep)
	src := &scriptedSource{t: t, steps: steps}

	if err := Run(src, tr, Config{}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if *releases != 1 {
		t.Errorf("Expected exactly 1 synthesized release, got %d", *releases)
	}
	if tr.Pressed(keyX) {
		t.Error("Expected key released after silence")
	}
}

// TestRunIgnoresSpuriousWakeup verifies an empty read is skipped without
// observing a key
func TestRunIgnoresSpuriousWakeup(t *testing.T) {
	hooks, presses, _ := countingHooks()
	tr := NewTracker(testCalibration(), hooks)
	src := &scriptedSource{t: t, steps: []scriptStep{
		{ready: true, code: ""},
		sentinelStep,
	}}

	if err := Run(src, tr, Config{}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if *presses != 0 {
		t.Errorf("Expected no press from empty read, got %d", *presses)
	}
}

func TestRunReadErrorPropagates(t *testing.T) {
	readErr := errors.New("descriptor gone")
	tr := NewTracker(testCalibration(), nil)
	src := &scriptedSource{t: t, steps: []scriptStep{
		{ready: true, readErr: readErr},
	}}

	if err := Run(src, tr, Config{}); !errors.Is(err, readErr) {
		t.Errorf("Expected read error to propagate, got %v", err)
	}
}

func TestRunWaitErrorPropagates(t *testing.T) {
	waitErr := errors.New("poll failed")
	tr := NewTracker(testCalibration(), nil)
	src := &scriptedSource{t: t, steps: []scriptStep{
		{waitErr: waitErr},
	}}

	if err := Run(src, tr, Config{}); !errors.Is(err, waitErr) {
		t.Errorf("Expected wait error to propagate, got %v", err)
	}
}

func TestConfigPollTimeout(t *testing.T) {
	cal := testCalibration() // 40ms repeat interval

	d, err := Config{}.pollTimeout(cal)
	if err != nil {
		t.Fatalf("Auto poll timeout returned error: %v", err)
	}
	if d != 10*time.Millisecond {
		t.Errorf("Expected auto timeout 10ms, got %v", d)
	}

	// Explicit override within bounds
	d, err = Config{PollTimeout: 5 * time.Millisecond}.pollTimeout(cal)
	if err != nil {
		t.Fatalf("Override poll timeout returned error: %v", err)
	}
	if d != 5*time.Millisecond {
		t.Errorf("Expected override timeout 5ms, got %v", d)
	}

	// Too coarse: more than half the repeat interval
	if _, err := (Config{PollTimeout: 30 * time.Millisecond}).pollTimeout(cal); !errors.Is(err, ErrPollTimeout) {
		t.Errorf("Expected ErrPollTimeout for coarse timeout, got %v", err)
	}

	// Auto derivation floors at 1ms, which a tiny repeat interval cannot accommodate
	tiny := Calibration{InitialDelay: 5 * time.Millisecond, RepeatInterval: time.Millisecond}
	if _, err := (Config{}).pollTimeout(tiny); !errors.Is(err, ErrPollTimeout) {
		t.Errorf("Expected ErrPollTimeout for 1ms repeat interval, got %v", err)
	}
}

// TestRunCustomSentinel verifies a configured sentinel byte is honored
func TestRunCustomSentinel(t *testing.T) {
	hooks, presses, _ := countingHooks()
	tr := NewTracker(testCalibration(), hooks)
	src := &scriptedSource{t: t, steps: []scriptStep{
		event(keyX),
		{ready: true, code: "q"},
	}}

	if err := Run(src, tr, Config{Sentinel: 'q'}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if *presses != 1 {
		t.Errorf("Expected 1 press before custom sentinel, got %d", *presses)
	}
}
