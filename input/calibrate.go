package input

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

// ErrInsufficientSamples means calibration was asked to work from fewer than
// three samples, too few to separate the initial delay from the steady rate.
var ErrInsufficientSamples = errors.New("calibration needs at least 3 samples")

// Calibration holds the two measured key-repeat durations for a keyboard.
// Immutable once computed; the event loop reads it, never writes it.
type Calibration struct {
	// InitialDelay is the gap between the first key-down and the first
	// repeat, inflated by the calibration margin.
	InitialDelay time.Duration

	// RepeatInterval is the mean gap between subsequent repeats, inflated
	// by the calibration margin.
	RepeatInterval time.Duration
}

// ComputeDelays derives a Calibration from raw key-event timestamps taken
// while a key was held. stamps[1]-stamps[0] is the initial repeat delay; the
// mean of the remaining gaps is the steady repeat interval. marginPercent
// inflates both to absorb timing jitter that would otherwise cause false
// releases. Results are rounded to whole milliseconds.
func ComputeDelays(stamps []time.Time, marginPercent int) (Calibration, error) {
	if len(stamps) < 3 {
		return Calibration{}, fmt.Errorf("%w: got %d", ErrInsufficientSamples, len(stamps))
	}

	scale := 1 + float64(marginPercent)/100

	initial := stamps[1].Sub(stamps[0])

	var total time.Duration
	for i := 2; i < len(stamps); i++ {
		total += stamps[i].Sub(stamps[i-1])
	}
	mean := float64(total) / float64(len(stamps)-2)

	return Calibration{
		InitialDelay:   roundMs(float64(initial) * scale),
		RepeatInterval: roundMs(mean * scale),
	}, nil
}

// roundMs rounds a duration in nanoseconds to the nearest millisecond.
func roundMs(nanos float64) time.Duration {
	ms := math.Round(nanos / float64(time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

// Calibrate measures the operator's actual keyboard repeat timing. It
// prompts on w for a sustained key hold, reads samples single bytes from r
// (blocking reads; the operator is actively holding), timestamps each with
// clock, prints the computed delays, and waits for one acknowledgement
// keystroke before returning. Output uses \r\n line endings so it renders
// correctly when r is a raw-mode terminal session.
//
// Calibrated values only approximate later behavior: if the keyboard's
// timing drifts between calibration and use, the loop may infer releases
// early or late. That tolerance is inherent to timing inference.
func Calibrate(r io.ByteReader, w io.Writer, clock Clock, samples, marginPercent int) (Calibration, error) {
	if samples < 3 {
		return Calibration{}, fmt.Errorf("%w: got %d", ErrInsufficientSamples, samples)
	}
	if clock == nil {
		clock = SystemClock()
	}

	fmt.Fprintf(w, "Press and hold a key until it says STOP:\r\n")
	fmt.Fprintf(w, "\r  0/%d", samples)

	stamps := make([]time.Time, 0, samples)
	for i := 0; i < samples; i++ {
		if _, err := r.ReadByte(); err != nil {
			return Calibration{}, fmt.Errorf("calibration read: %w", err)
		}
		stamps = append(stamps, clock.Now())
		fmt.Fprintf(w, "\r%3d/%d", i+1, samples)
	}

	cal, err := ComputeDelays(stamps, marginPercent)
	if err != nil {
		return Calibration{}, err
	}

	fmt.Fprintf(w, "\r\nSTOP. Initial repeat delay %v, steady repeat interval %v.\r\n",
		cal.InitialDelay, cal.RepeatInterval)
	fmt.Fprintf(w, "Press any key to continue.\r\n")
	if _, err := r.ReadByte(); err != nil {
		return Calibration{}, fmt.Errorf("calibration read: %w", err)
	}

	return cal, nil
}
