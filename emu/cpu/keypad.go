package cpu

const KeyCount = 16

// Keypad tells whether each of the 16 keys is held down.
type Keypad [KeyCount]bool

// SetKey records a press or release. Indexes above 0xF are ignored.
func (k *Keypad) SetKey(index uint8, pressed bool) {
	if int(index) < KeyCount {
		k[index] = pressed
	}
}

func (k *Keypad) IsPressed(index uint8) bool {
	return k[index&0x0F]
}

// LowestPressed returns the smallest index currently held down.
func (k *Keypad) LowestPressed() (uint8, bool) {
	for i, pressed := range k {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}
