package main

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	toneSampleRate = beep.SampleRate(44100)
	toneFrequency  = 440
)

// holdTone plays a sine tone while at least one hooked key is inferred
// held, making release latency audible
type holdTone struct {
	enabled bool
	ctrl    *beep.Ctrl
	held    int
}

func newHoldTone(enabled bool) *holdTone {
	t := &holdTone{}
	if !enabled {
		return t
	}

	if err := speaker.Init(toneSampleRate, toneSampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, demo can run without sound
		log.Printf("Audio initialization failed: %v", err)
		return t
	}

	sine, err := generators.SineTone(toneSampleRate, toneFrequency)
	if err != nil {
		log.Printf("Tone generation failed: %v", err)
		return t
	}

	t.ctrl = &beep.Ctrl{Streamer: sine, Paused: true}
	speaker.Play(t.ctrl)
	t.enabled = true
	return t
}

func (t *holdTone) start() {
	if !t.enabled {
		return
	}
	t.held++
	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()
}

func (t *holdTone) stop() {
	if !t.enabled {
		return
	}
	if t.held > 0 {
		t.held--
	}
	if t.held == 0 {
		speaker.Lock()
		t.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (t *holdTone) close() {
	if t.enabled {
		speaker.Close()
	}
}
