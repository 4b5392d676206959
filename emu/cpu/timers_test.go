package cpu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTimersTick(t *testing.T) {
	tests := []struct {
		name      string
		start     Timers
		want      Timers
		wantBeeps bool
	}{
		{"idle", Timers{}, Timers{}, false},
		{"sound expires", Timers{Sound: 1}, Timers{}, true},
		{"sound counts down", Timers{Sound: 5}, Timers{Sound: 4}, false},
		{"delay counts down", Timers{Delay: 2}, Timers{Delay: 1}, false},
		{"both", Timers{Delay: 1, Sound: 1}, Timers{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timers := tt.start
			beep := timers.Tick()
			assert.Equal(t, tt.wantBeeps, beep)
			assert.Equal(t, tt.want, timers)
		})
	}
}

func TestSoundTimerBeepsOnce(t *testing.T) {
	timers := Timers{Sound: 3}

	beeps := 0
	for i := 0; i < 10; i++ {
		if timers.Tick() {
			beeps++
		}
	}
	assert.Equal(t, 1, beeps)
	assert.Equal(t, uint8(0), timers.Sound)
}

func TestKeypad(t *testing.T) {
	var keys Keypad

	_, ok := keys.LowestPressed()
	assert.False(t, ok)

	keys.SetKey(0xC, true)
	keys.SetKey(0x5, true)
	keys.SetKey(0x20, true) // ignored

	key, ok := keys.LowestPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x5), key)
	assert.True(t, keys.IsPressed(0xC))
	assert.False(t, keys.IsPressed(0x0))

	keys.SetKey(0x5, false)
	key, _ = keys.LowestPressed()
	assert.Equal(t, uint8(0xC), key)
}

func TestStack(t *testing.T) {
	var s Stack

	_, err := s.Pop()
	assert.Equal(t, ErrStackUnderflow, err)

	for i := 0; i < StackDepth; i++ {
		assert.NoError(t, s.Push(uint16(0x200+i*2)))
	}
	assert.Equal(t, ErrStackOverflow, s.Push(0x300))
	assert.Equal(t, StackDepth, s.Depth())

	addr, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x200+(StackDepth-1)*2), addr)
}
