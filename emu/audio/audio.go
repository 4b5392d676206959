// Package audio plays the beep through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	// SampleRate used for the generated tone.
	SampleRate = beep.SampleRate(44100)

	toneFrequency = 440
	toneDuration  = time.Second / 10
	toneVolume    = 0.2
)

var errUnsupportedFormat = errors.New("unsupported sound format")

// Player plays a buffered sound every time Beep is called.
type Player struct {
	buffer *beep.Buffer
}

// NewPlayer initialises the speaker for the sound file at path, or for a
// generated square tone if path is empty.
func NewPlayer(path string) (*Player, error) {
	var (
		buffer *beep.Buffer
		err    error
	)
	if path == "" {
		buffer = ToneBuffer(SampleRate, toneFrequency, toneDuration)
	} else if buffer, err = Load(path); err != nil {
		return nil, err
	}

	format := buffer.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	return &Player{buffer: buffer}, nil
}

// Beep starts playing the sound, mixed with any beep still playing.
func (p *Player) Beep() {
	speaker.Play(p.buffer.Streamer(0, p.buffer.Len()))
}

// Load decodes an mp3 or wav file into memory.
func Load(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sound file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w '%s'", errUnsupportedFormat, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding sound file: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// Tone returns a square wave of the given frequency and duration.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	period := float64(sr) / freq
	pos := 0
	wave := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := toneVolume
			if math.Mod(float64(pos), period) >= period/2 {
				v = -toneVolume
			}
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
	return beep.Take(sr.N(d), wave)
}

// ToneBuffer renders Tone into a buffer.
func ToneBuffer(sr beep.SampleRate, freq float64, d time.Duration) *beep.Buffer {
	buffer := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buffer.Append(Tone(sr, freq, d))
	return buffer
}
