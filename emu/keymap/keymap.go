// Package keymap binds physical keyboard keys to the 16 logical keys of the
// keypad.
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
package keymap

import "unicode"

// Layout maps a physical key to its logical key index.
var Layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the logical key for a physical key, ignoring case.
func Lookup(r rune) (uint8, bool) {
	key, ok := Layout[unicode.ToLower(r)]
	return key, ok
}
