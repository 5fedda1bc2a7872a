//go:build unix

package terminal

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// EmergencyReset attempts to restore the terminal to a sane cooked state.
// Call this from panic recovery when Release cannot run normally.
// Best-effort; errors are ignored in a crash context.
func EmergencyReset(w io.Writer) {
	// Clear any pending attributes so the crash report is readable
	w.Write([]byte("\x1b[0m"))

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Restore via /dev/tty so this works even if stdin was redirected
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		defer tty.Close()
		fd := int(tty.Fd())
		unix.SetNonblock(fd, false)
		// Get current termios, enable ECHO and ICANON
		if termios, err := unix.IoctlGetTermios(fd, unix.TCGETS); err == nil {
			termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
			termios.Iflag |= unix.ICRNL
			unix.IoctlSetTermios(fd, unix.TCSETS, termios)
		}
	}
}
