package cpu

const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight
)

// Frame is a snapshot of the display, one byte per pixel (0 or 1), row-major.
type Frame [DisplaySize]uint8

// Pixel reports whether the pixel at (x, y) is lit.
func (f *Frame) Pixel(x, y int) bool {
	return f[x+y*DisplayWidth] != 0
}

// Framebuffer is the monochrome display memory. It is only changed by Clear
// and DrawSprite.
type Framebuffer struct {
	pixels Frame
	dirty  bool
}

func (fb *Framebuffer) Clear() {
	fb.pixels = Frame{}
	fb.dirty = true
}

// DrawSprite XORs the sprite rows onto the display at (x, y), wrapping each
// pixel coordinate around the screen edges. It returns true when a lit pixel
// was switched off.
func (fb *Framebuffer) DrawSprite(x, y uint8, sprite []uint8) bool {
	collision := false
	for row, bits := range sprite {
		py := (int(y) + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			idx := px + py*DisplayWidth
			if fb.pixels[idx] == 1 {
				collision = true
			}
			fb.pixels[idx] ^= 1
		}
	}
	fb.dirty = true
	return collision
}

// Snapshot returns a copy of the current display contents.
func (fb *Framebuffer) Snapshot() Frame {
	return fb.pixels
}
