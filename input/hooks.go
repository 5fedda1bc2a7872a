package input

import "github.com/lixenwraith/keyhold/terminal"

// Hook is a zero-argument callback bound to a key transition.
type Hook func()

// Hooks maps key codes to press and release callbacks. A code with no
// registered callback is a no-op, not an error.
type Hooks struct {
	press   map[terminal.KeyCode]Hook
	release map[terminal.KeyCode]Hook
}

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{
		press:   make(map[terminal.KeyCode]Hook),
		release: make(map[terminal.KeyCode]Hook),
	}
}

// OnPress registers fn to run when code transitions to pressed.
// Replaces any previous press hook for code.
func (h *Hooks) OnPress(code terminal.KeyCode, fn Hook) {
	h.press[code] = fn
}

// OnRelease registers fn to run when code is inferred released.
// Replaces any previous release hook for code.
func (h *Hooks) OnRelease(code terminal.KeyCode, fn Hook) {
	h.release[code] = fn
}

func (h *Hooks) firePress(code terminal.KeyCode) {
	invoke(h.press, code)
}

func (h *Hooks) fireRelease(code terminal.KeyCode) {
	invoke(h.release, code)
}

// invoke runs the hook for code if one is registered.
func invoke(m map[terminal.KeyCode]Hook, code terminal.KeyCode) {
	if fn, ok := m[code]; ok {
		fn()
	}
}
