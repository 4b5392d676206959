// Package term implements a frontend that renders into an ANSI terminal and
// reads the keypad from raw stdin.
//
// Terminals only report key presses, so a key counts as held for
// keyRepeatDuration after its last press. Auto repeat of a held key keeps it
// pressed.
package term

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/driver"
	"github.com/beanboi7/chyp8/emu/keymap"
)

const keyRepeatDuration = time.Second / 5

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b

	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// Terminal is a driver frontend for a text terminal.
type Terminal struct {
	out   io.Writer
	input chan byte
	done  chan struct{}
	once  sync.Once
	now   func() time.Time

	raw    *rawMode
	held   [cpu.KeyCount]time.Time
	closed bool
}

var _ driver.Frontend = (*Terminal)(nil)

// New returns a terminal frontend reading keys from in and drawing to out.
// The caller is responsible for the terminal mode of in.
func New(in io.Reader, out io.Writer) *Terminal {
	t := newTerminal(out)
	go t.readLoop(in, false)
	return t
}

// Open switches stdin into raw mode and returns a frontend on stdin and
// stdout. Close restores the terminal.
func Open() (*Terminal, error) {
	raw, err := enterRawMode(os.Stdin)
	if err != nil {
		return nil, err
	}

	t := newTerminal(os.Stdout)
	t.raw = raw
	if _, err := io.WriteString(t.out, hideCursor+clearAll); err != nil {
		_ = raw.restore()
		return nil, err
	}
	go t.readLoop(os.Stdin, true)
	return t, nil
}

func newTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:   out,
		input: make(chan byte, 64),
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

// Close stops reading input and restores the terminal.
func (t *Terminal) Close() error {
	var err error
	t.once.Do(func() {
		close(t.done)
		if t.raw == nil {
			return
		}
		_, err = io.WriteString(t.out, showCursor)
		if rerr := t.raw.restore(); rerr != nil {
			err = rerr
		}
	})
	return err
}

// readLoop forwards input bytes until Close. In raw mode a read returning no
// data is a timeout, otherwise it is the end of input.
func (t *Terminal) readLoop(in io.Reader, raw bool) {
	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.input <- b:
			case <-t.done:
				return
			}
		}

		if err != nil && !(raw && errors.Is(err, io.EOF)) {
			return
		}
		select {
		case <-t.done:
			return
		default:
		}
	}
}

// PollKeys drains pending input and reports every key as held or released.
func (t *Terminal) PollKeys(set func(key uint8, pressed bool)) error {
	now := t.now()
drain:
	for {
		select {
		case b := <-t.input:
			t.handleByte(b, now)
		default:
			break drain
		}
	}

	for key := range t.held {
		set(uint8(key), now.Before(t.held[key]))
	}
	return nil
}

func (t *Terminal) handleByte(b byte, now time.Time) {
	switch b {
	case keyCtrlC, keyEscape:
		t.closed = true
		return
	}
	if key, ok := keymap.Lookup(rune(b)); ok {
		t.held[key] = now.Add(keyRepeatDuration)
	}
}

// Closed reports whether the user pressed Escape or Ctrl-C.
func (t *Terminal) Closed() bool {
	return t.closed
}

// Draw renders the frame at the top left corner of the terminal.
func (t *Terminal) Draw(frame cpu.Frame) error {
	var sb strings.Builder
	sb.WriteString(cursorHome)
	Render(&sb, frame)
	_, err := io.WriteString(t.out, sb.String())
	return err
}

// Render writes the frame as text, packing two pixel rows into each line with
// half block characters.
func Render(sb *strings.Builder, frame cpu.Frame) {
	for y := 0; y < cpu.DisplayHeight; y += 2 {
		for x := 0; x < cpu.DisplayWidth; x++ {
			top, bottom := frame.Pixel(x, y), frame.Pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
}
