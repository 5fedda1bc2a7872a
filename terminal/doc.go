// @focus: #sys { term }
// Package terminal provides exclusive raw-mode access to a terminal input stream.
//
// Features:
//   - Raw session acquisition with capture/restore of the prior termios state
//   - Non-blocking reads with poll-with-timeout input waiting
//   - Variable-length key reads that keep multi-byte escape sequences whole
//   - Emergency cooked-mode restoration for panic paths
//
// This package bypasses terminfo/termcap entirely and works on the raw file
// descriptor. Target environments: Linux, macOS, BSDs with xterm-compatible
// terminals.
package terminal
