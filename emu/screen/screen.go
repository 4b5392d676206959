// Package screen implements the desktop window frontend on top of pixelgl.
package screen

import (
	"fmt"
	"image/color"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/driver"
	"github.com/beanboi7/chyp8/emu/keymap"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"
)

// Title of the emulator window.
const Title = "Chyp8"

var buttons = map[rune]pixelgl.Button{
	'1': pixelgl.Key1, '2': pixelgl.Key2, '3': pixelgl.Key3, '4': pixelgl.Key4,
	'q': pixelgl.KeyQ, 'w': pixelgl.KeyW, 'e': pixelgl.KeyE, 'r': pixelgl.KeyR,
	'a': pixelgl.KeyA, 's': pixelgl.KeyS, 'd': pixelgl.KeyD, 'f': pixelgl.KeyF,
	'z': pixelgl.KeyZ, 'x': pixelgl.KeyX, 'c': pixelgl.KeyC, 'v': pixelgl.KeyV,
}

// Window draws the framebuffer as scaled rectangles and reads the keypad
// from the keyboard. It must be created inside pixelgl.Run.
type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button

	Foreground color.Color
	Background color.Color

	scale float64
	imd   *imdraw.IMDraw
}

var _ driver.Frontend = (*Window)(nil)

// NewWindow opens a window with scale screen pixels per display pixel.
func NewWindow(scale int) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  Title,
		Bounds: pixel.R(0, 0, float64(cpu.DisplayWidth*scale), float64(cpu.DisplayHeight*scale)),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w := &Window{
		Window:     win,
		KeyMap:     make(map[uint16]pixelgl.Button, len(keymap.Layout)),
		Foreground: colornames.White,
		Background: colornames.Black,
		scale:      float64(scale),
		imd:        imdraw.New(nil),
	}
	for r, key := range keymap.Layout {
		w.KeyMap[uint16(key)] = buttons[r]
	}

	win.Clear(w.Background)
	win.Update()
	return w, nil
}

// Draw renders the frame and swaps the window buffers.
func (w *Window) Draw(frame cpu.Frame) error {
	w.imd.Clear()
	w.imd.Color = w.Foreground

	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if !frame.Pixel(x, y) {
				continue
			}
			// pixel's origin is the bottom left corner
			row := float64(cpu.DisplayHeight - 1 - y)
			w.imd.Push(
				pixel.V(float64(x)*w.scale, row*w.scale),
				pixel.V(float64(x+1)*w.scale, (row+1)*w.scale),
			)
			w.imd.Rectangle(0)
		}
	}

	w.Clear(w.Background)
	w.imd.Draw(w.Window)
	w.Update()
	return nil
}

// PollKeys reads the keyboard state. Escape closes the window.
func (w *Window) PollKeys(set func(key uint8, pressed bool)) error {
	w.UpdateInput()

	if w.JustPressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
	}
	for key, button := range w.KeyMap {
		set(uint8(key), w.Pressed(button))
	}
	return nil
}
