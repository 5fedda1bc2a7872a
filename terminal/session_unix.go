//go:build unix

package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// maxKeyBytes bounds a single key read. Long enough for any escape sequence
// a key emits (modified arrows are 6 bytes).
const maxKeyBytes = 8

// escSettleTimeout is how long ReadKey waits for the tail of a partially
// received escape sequence before treating the captured bytes as the key.
// Sequence bytes arrive back-to-back from the terminal, so a few
// milliseconds is ample; a standalone ESC press just pays this once.
const escSettleTimeout = 5 * time.Millisecond

// Session holds exclusive raw-mode ownership of a terminal input stream.
// While held, the stream delivers individual bytes without line buffering or
// echo, and reads do not block. Release restores the exact prior mode;
// callers must guarantee it runs on every exit path.
type Session struct {
	file     *os.File
	fd       int
	oldState *term.State
	released bool
}

// Acquire captures the current terminal mode of f, switches it to raw input
// and the descriptor to non-blocking reads. A failure partway through
// restores whatever was already changed before returning.
func Acquire(f *os.File) (*Session, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("terminal acquire: fd %d is not a terminal", fd)
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal acquire: %w", err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		term.Restore(fd, old)
		return nil, fmt.Errorf("terminal acquire: set nonblock: %w", err)
	}

	return &Session{file: f, fd: fd, oldState: old}, nil
}

// Release restores the mode captured at acquisition and returns the
// descriptor to blocking reads. Safe to call multiple times. Restoration is
// attempted even if clearing non-blocking mode fails.
func (s *Session) Release() error {
	if s.released {
		return nil
	}
	s.released = true

	blockErr := unix.SetNonblock(s.fd, false)
	if err := term.Restore(s.fd, s.oldState); err != nil {
		return fmt.Errorf("terminal release: %w", err)
	}
	if blockErr != nil {
		return fmt.Errorf("terminal release: clear nonblock: %w", blockErr)
	}
	return nil
}

// Wait blocks until input is readable or timeout elapses, retrying on
// EINTR. A negative timeout waits indefinitely. Returns false on timeout.
func (s *Session) Wait(timeout time.Duration) (bool, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	for {
		fds := []unix.PollFd{
			{Fd: int32(s.fd), Events: unix.POLLIN},
		}

		n, err := unix.Poll(fds, ms)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return false, fmt.Errorf("terminal poll: %w", err)
		}
		return n > 0, nil
	}
}

// ReadKey reads one key's worth of bytes and returns them as a KeyCode.
// If the bytes read so far form a truncated escape sequence, it polls
// briefly for the remainder so multi-byte keys arrive whole. Returns an
// empty KeyCode when no data was actually available (spurious wakeup).
func (s *Session) ReadKey() (KeyCode, error) {
	buf := make([]byte, maxKeyBytes)

	n, err := s.read(buf)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	for incompleteSequence(buf[:n]) && n < maxKeyBytes {
		ready, err := s.Wait(escSettleTimeout)
		if err != nil {
			return "", err
		}
		if !ready {
			break // No more bytes imminent, sequence is what it is
		}
		m, err := s.read(buf[n:])
		if err != nil {
			return "", err
		}
		if m == 0 {
			break
		}
		n += m
	}

	return KeyCode(buf[:n]), nil
}

// ReadByte blocks until a single byte arrives. Implements io.ByteReader;
// used by calibration, where the operator is actively holding a key.
func (s *Session) ReadByte() (byte, error) {
	var b [1]byte
	for {
		if _, err := s.Wait(-1); err != nil {
			return 0, err
		}
		n, err := s.read(b[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return b[0], nil
		}
	}
}

// read performs one non-blocking read, retrying EINTR and treating EAGAIN
// as zero bytes. A true zero-byte read is EOF.
func (s *Session) read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.EAGAIN {
				return 0, nil
			}
			return 0, fmt.Errorf("terminal read: %w", err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}
