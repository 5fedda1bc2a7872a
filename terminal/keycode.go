// @focus: #sys { io } #input { keys }
package terminal

import "fmt"

// KeyCode identifies a logical key by the raw byte sequence the terminal
// emits for it. Single printable characters are one byte; arrow keys and
// similar send multi-byte escape sequences. Equality is exact byte equality;
// no translation to symbolic keycodes is performed.
type KeyCode string

// Well-known key codes - designed for expansion
const (
	KeyUp    KeyCode = "\x1b[A"
	KeyDown  KeyCode = "\x1b[B"
	KeyRight KeyCode = "\x1b[C"
	KeyLeft  KeyCode = "\x1b[D"

	KeyEnter     KeyCode = "\r"
	KeyTab       KeyCode = "\t"
	KeySpace     KeyCode = " "
	KeyEscape    KeyCode = "\x1b"
	KeyBackspace KeyCode = "\x7f"

	// KeyEOT is the end-of-transmission control byte (Ctrl+D), the
	// conventional loop-termination sentinel.
	KeyEOT KeyCode = "\x04"
)

// keyNames maps known sequences to display names.
// SS3 variants cover terminals in application cursor mode.
var keyNames = map[KeyCode]string{
	KeyUp:    "Up",
	KeyDown:  "Down",
	KeyRight: "Right",
	KeyLeft:  "Left",
	"\x1bOA": "Up",
	"\x1bOB": "Down",
	"\x1bOC": "Right",
	"\x1bOD": "Left",

	KeyEnter:     "Enter",
	"\n":         "Enter",
	KeyTab:       "Tab",
	KeySpace:     "Space",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	"\x1b[3~":    "Delete",
	"\x1b[H":     "Home",
	"\x1b[F":     "End",
	"\x1b[5~":    "PageUp",
	"\x1b[6~":    "PageDown",
	"\x1b[2~":    "Insert",
	"\x1b[Z":     "Backtab",
}

// String renders a human-readable name for the key code.
// Unknown sequences fall back to quoted byte notation.
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if len(k) == 1 {
		b := k[0]
		switch {
		case b >= 0x20 && b < 0x7f:
			return fmt.Sprintf("'%c'", b)
		case b >= 0x01 && b <= 0x1a:
			return fmt.Sprintf("Ctrl+%c", 'A'+b-1)
		}
	}
	return fmt.Sprintf("%q", string(k))
}

// incompleteSequence reports whether b looks like a truncated escape
// sequence that may still have bytes in flight. Used by ReadKey to decide
// whether to wait briefly for the remainder before treating the captured
// bytes as the key.
func incompleteSequence(b []byte) bool {
	if len(b) == 0 || b[0] != 0x1b {
		return false
	}
	if len(b) == 1 {
		return true // Lone ESC: sequence start or standalone Escape
	}
	switch b[1] {
	case '[':
		// CSI: complete once a final byte in 0x40-0x7e arrives
		if len(b) == 2 {
			return true
		}
		last := b[len(b)-1]
		return last < 0x40 || last > 0x7e
	case 'O':
		// SS3: ESC O plus exactly one final byte
		return len(b) < 3
	}
	// ESC + anything else (Alt+key) is complete
	return false
}
