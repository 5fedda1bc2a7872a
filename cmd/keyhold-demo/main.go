package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/lixenwraith/keyhold/input"
	"github.com/lixenwraith/keyhold/terminal"
)

var (
	samplesFlag = flag.Int("samples", 10, "calibration samples to collect (minimum 3, more samples -> better average)")
	marginFlag  = flag.Int("margin", 4, "percent margin added to calibrated delays to absorb timing jitter")
	pollFlag    = flag.Duration("poll", 0, "poll timeout override (0 = auto: repeat interval / 4)")
	soundFlag   = flag.Bool("sound", false, "play a tone while an arrow key is held")
)

func main() {
	// Panic recovery: restore the terminal even if the demo crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)

			// Use \r\n for raw mode compatibility to avoid zig-zag output
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mKEYHOLD-DEMO CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "keyhold-demo: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Program ended")
}

func run() error {
	tone := newHoldTone(*soundFlag)
	defer tone.close()

	session, err := terminal.Acquire(os.Stdin)
	if err != nil {
		return err
	}
	// Normal exit terminal cleanup; panic paths go through EmergencyReset
	defer session.Release()

	cal, err := input.Calibrate(session, os.Stdout, input.SystemClock(), *samplesFlag, *marginFlag)
	if err != nil {
		return err
	}

	hooks := input.NewHooks()
	for _, code := range []terminal.KeyCode{terminal.KeyUp, terminal.KeyDown} {
		registerKey(hooks, code, tone)
	}

	fmt.Printf("Hold the Up/Down arrow keys to see press/release inference. Ctrl+D exits.\r\n")

	tracker := input.NewTracker(cal, hooks)
	return input.Run(session, tracker, input.Config{PollTimeout: *pollFlag})
}

// registerKey wires press/release logging and the hold tone for one key
func registerKey(hooks *input.Hooks, code terminal.KeyCode, tone *holdTone) {
	hooks.OnPress(code, func() {
		fmt.Printf("%s %s pressed\r\n", timestamp(), code)
		tone.start()
	})
	hooks.OnRelease(code, func() {
		fmt.Printf("%s %s released\r\n", timestamp(), code)
		tone.stop()
	})
}

func timestamp() string {
	return time.Now().Format("15:04:05.000")
}
