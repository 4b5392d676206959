package keymap

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLayoutCoversKeypad(t *testing.T) {
	seen := map[uint8]bool{}
	for _, r := range "1234qwerasdfzxcv" {
		key, ok := Lookup(r)
		assert.True(t, ok)
		seen[key] = true
	}
	assert.Equal(t, 16, len(seen))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		r    rune
		want uint8
		ok   bool
	}{
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'Q', 0x4, true},
		{'x', 0x0, true},
		{'v', 0xF, true},
		{'p', 0, false},
	}

	for _, tt := range tests {
		key, ok := Lookup(tt.r)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, key)
	}
}
