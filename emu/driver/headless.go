package driver

import (
	"sync"

	"github.com/beanboi7/chyp8/emu/cpu"
)

type keyEvent struct {
	key     uint8
	pressed bool
}

// Headless is a frontend without any user interface. It keeps the last
// drawn frame and replays queued key events on the next poll.
type Headless struct {
	mu      sync.Mutex
	frame   cpu.Frame
	frames  int
	pending []keyEvent
	closed  bool
}

var _ Frontend = (*Headless)(nil)

// NewHeadless returns an open headless frontend.
func NewHeadless() *Headless {
	return &Headless{}
}

// Draw stores the frame.
func (h *Headless) Draw(frame cpu.Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = frame
	h.frames++
	return nil
}

// PollKeys applies all key events queued since the last poll.
func (h *Headless) PollKeys(set func(key uint8, pressed bool)) error {
	h.mu.Lock()
	pending := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, ev := range pending {
		set(ev.key, ev.pressed)
	}
	return nil
}

// Press queues a key event for the next poll.
func (h *Headless) Press(key uint8, pressed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, keyEvent{key: key, pressed: pressed})
}

// Close makes the driver stop after the current tick.
func (h *Headless) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Frame returns the last drawn frame.
func (h *Headless) Frame() cpu.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Frames returns how many times Draw was called.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}
