package term

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/retroenv/retrogolib/assert"
)

func newTestTerminal(out *bytes.Buffer) (*Terminal, *time.Time) {
	now := time.Unix(1000, 0)
	t := newTerminal(out)
	t.now = func() time.Time { return now }
	return t, &now
}

func pollKeys(t *Terminal) [cpu.KeyCount]bool {
	var keys [cpu.KeyCount]bool
	_ = t.PollKeys(func(key uint8, pressed bool) {
		keys[key] = pressed
	})
	return keys
}

func TestPollKeysHoldsAndReleases(t *testing.T) {
	term, now := newTestTerminal(&bytes.Buffer{})

	term.input <- 'w'
	term.input <- 'V'
	keys := pollKeys(term)
	assert.True(t, keys[0x5])
	assert.True(t, keys[0xF])
	assert.False(t, keys[0x0])

	*now = now.Add(keyRepeatDuration / 2)
	keys = pollKeys(term)
	assert.True(t, keys[0x5])

	// auto repeat keeps w held
	term.input <- 'w'
	pollKeys(term)
	*now = now.Add(keyRepeatDuration * 3 / 4)
	keys = pollKeys(term)
	assert.True(t, keys[0x5])
	assert.False(t, keys[0xF])
}

func TestPollKeysIgnoresUnmapped(t *testing.T) {
	term, _ := newTestTerminal(&bytes.Buffer{})

	term.input <- 'p'
	keys := pollKeys(term)
	assert.Equal(t, [cpu.KeyCount]bool{}, keys)
	assert.False(t, term.Closed())
}

func TestEscapeCloses(t *testing.T) {
	for _, b := range []byte{keyEscape, keyCtrlC} {
		term, _ := newTestTerminal(&bytes.Buffer{})
		term.input <- b
		pollKeys(term)
		assert.True(t, term.Closed())
	}
}

func TestNewReadsInput(t *testing.T) {
	term := New(strings.NewReader("x"), &bytes.Buffer{})
	defer term.Close()

	select {
	case b := <-term.input:
		assert.Equal(t, byte('x'), b)
	case <-time.After(time.Second):
		t.Fatal("no input received")
	}
}

func TestRender(t *testing.T) {
	var frame cpu.Frame
	for _, p := range [][2]int{{0, 0}, {1, 1}, {2, 0}, {2, 1}, {63, 31}} {
		frame[p[0]+p[1]*cpu.DisplayWidth] = 1
	}

	var sb strings.Builder
	Render(&sb, frame)
	lines := strings.Split(sb.String(), "\r\n")
	assert.Equal(t, cpu.DisplayHeight/2+1, len(lines))

	first := []rune(lines[0])
	assert.Equal(t, cpu.DisplayWidth, len(first))
	assert.Equal(t, "▀▄█ ", string(first[:4]))

	last := []rune(lines[cpu.DisplayHeight/2-1])
	assert.Equal(t, '▄', last[cpu.DisplayWidth-1])
}

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	term, _ := newTestTerminal(&out)

	assert.NoError(t, term.Draw(cpu.Frame{}))
	assert.True(t, strings.HasPrefix(out.String(), cursorHome))
	assert.NoError(t, term.Close())
}
