// Package driver runs an emulator against a frontend at a fixed refresh rate.
//
// Every tick polls the frontend for key state, executes a configurable number
// of instructions, decrements the timers and pushes the framebuffer to the
// frontend when the program changed it.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/internal/config"
	"github.com/retroenv/retrogolib/log"
)

// Display receives a copy of the framebuffer whenever it changed.
type Display interface {
	Draw(frame cpu.Frame) error
}

// Input reports keypad state and whether the user asked to quit.
type Input interface {
	PollKeys(set func(key uint8, pressed bool)) error
	Closed() bool
}

// Frontend combines the display and input side of a user interface.
type Frontend interface {
	Display
	Input
}

// Sound plays the beep when the sound timer expires.
type Sound interface {
	Beep()
}

// Driver owns the emulation loop.
type Driver struct {
	emu      *cpu.EMU
	frontend Frontend
	sound    Sound
	logger   *log.Logger

	speed   int
	refresh int
	trace   bool

	maxTicks    int
	unthrottled bool
	ticks       int

	audioChannel    chan struct{}
	shutdownChannel chan struct{}
}

// Option configures optional driver behaviour.
type Option func(d *Driver)

// WithSound routes beeps to the given sink.
func WithSound(sound Sound) Option {
	return func(d *Driver) {
		d.sound = sound
	}
}

// WithMaxTicks stops the loop after n ticks, 0 runs until the frontend closes.
func WithMaxTicks(n int) Option {
	return func(d *Driver) {
		d.maxTicks = n
	}
}

// Unthrottled runs ticks back to back instead of waiting for the refresh
// interval.
func Unthrottled() Option {
	return func(d *Driver) {
		d.unthrottled = true
	}
}

// New returns a driver for emu that renders to frontend.
func New(emu *cpu.EMU, frontend Frontend, cfg config.Config, logger *log.Logger, opts ...Option) *Driver {
	d := &Driver{
		emu:      emu,
		frontend: frontend,
		logger:   logger,
		speed:    cfg.Speed,
		refresh:  cfg.Refresh,
		trace:    cfg.Trace,
	}
	// unset values fall back to the defaults
	if d.speed <= 0 {
		d.speed = config.Default().Speed
	}
	if d.refresh <= 0 {
		d.refresh = config.Default().Refresh
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ticks returns the number of completed ticks.
func (d *Driver) Ticks() int {
	return d.ticks
}

// Run executes ticks until the context is cancelled, the frontend is closed,
// the tick limit is reached or the emulator faults. A closed frontend or an
// exhausted tick limit is not an error.
func (d *Driver) Run(ctx context.Context) error {
	d.audioChannel = make(chan struct{}, 1)
	d.shutdownChannel = make(chan struct{})

	var wg sync.WaitGroup
	if d.sound != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.manageAudio()
		}()
	}
	defer func() {
		close(d.shutdownChannel)
		wg.Wait()
	}()

	var tick <-chan time.Time
	if !d.unthrottled {
		ticker := time.NewTicker(time.Second / time.Duration(d.refresh))
		defer ticker.Stop()
		tick = ticker.C
	}

	for d.maxTicks == 0 || d.ticks < d.maxTicks {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.RunTick(); err != nil {
			return err
		}
		if d.frontend.Closed() {
			d.logger.Debug("Frontend closed", log.Int("ticks", d.ticks))
			return nil
		}
	}
	return nil
}

// RunTick executes a single tick.
func (d *Driver) RunTick() error {
	if err := d.frontend.PollKeys(d.emu.SetKey); err != nil {
		return fmt.Errorf("polling keys: %w", err)
	}

	for i := 0; i < d.speed; i++ {
		if d.trace {
			d.traceInstruction()
		}
		if err := d.emu.Step(); err != nil {
			d.logFault(err)
			return err
		}
		if d.emu.AwaitingKey() {
			break
		}
	}

	if d.emu.Tick() {
		d.beep()
	}

	if d.emu.DrawFlag() {
		if err := d.frontend.Draw(d.emu.Frame()); err != nil {
			return fmt.Errorf("drawing frame: %w", err)
		}
	}

	d.ticks++
	return nil
}

func (d *Driver) traceInstruction() {
	if d.emu.AwaitingKey() {
		return
	}
	pc := d.emu.PC()
	word, err := d.emu.OpcodeAt(pc)
	if err != nil {
		return
	}
	d.logger.Debug("Executing",
		log.Uint16("pc", pc),
		log.Uint16("opcode", word),
		log.String("instruction", cpu.Disassemble(word)))
}

func (d *Driver) logFault(err error) {
	var fault *cpu.Fault
	if !errors.As(err, &fault) {
		d.logger.Error("Emulation stopped", err)
		return
	}
	d.logger.Error("Emulation halted", fault.Err,
		log.Uint16("pc", fault.PC),
		log.Uint16("opcode", fault.Opcode))
}

func (d *Driver) beep() {
	if d.sound == nil {
		return
	}
	select {
	case d.audioChannel <- struct{}{}:
	default:
		// a beep is already queued
	}
}

func (d *Driver) manageAudio() {
	for {
		select {
		case <-d.audioChannel:
			d.sound.Beep()
		case <-d.shutdownChannel:
			select {
			case <-d.audioChannel:
				d.sound.Beep()
			default:
			}
			return
		}
	}
}
