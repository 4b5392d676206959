//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

type rawMode struct {
	fd      int
	termios unix.Termios
}

// enterRawMode disables echo and line buffering. Reads return after at most
// a tenth of a second so the reader can notice Close.
func enterRawMode(f *os.File) (*rawMode, error) {
	fd := int(f.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal state: %w", err)
	}

	raw := &rawMode{fd: fd, termios: *termios}
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN | unix.ISIG
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate); err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return raw, nil
}

func (r *rawMode) restore() error {
	if err := unix.IoctlSetTermios(r.fd, ioctlSetTermios, &r.termios); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}
