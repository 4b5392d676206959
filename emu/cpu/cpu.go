package cpu

import (
	"fmt"
	"math/rand"
	"os"
	"time"
)

// RandomSource supplies the entropy for the RND instruction. *rand.Rand
// satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Option configures an EMU at construction.
type Option func(emu *EMU)

// WithRandom replaces the default clock seeded random source.
func WithRandom(r RandomSource) Option {
	return func(emu *EMU) {
		emu.random = r
	}
}

// EMU is a complete CHIP-8 machine. It is not safe for concurrent use: the
// caller owns it and serialises Step, Tick and SetKey.
type EMU struct {
	opcode  uint16 //last fetched
	memory  Memory
	regs    Registers
	display Framebuffer
	timers  Timers
	stack   Stack
	keys    Keypad
	random  RandomSource

	rom []byte

	awaitingKey bool
	keyRegister uint8

	fault *Fault
}

// New returns a machine with the font installed and no program loaded.
func New(opts ...Option) *EMU {
	emu := &EMU{
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(emu)
	}
	emu.Reset()
	return emu
}

// NewEMU returns a machine running the ROM file at romPath.
func NewEMU(romPath string, opts ...Option) (*EMU, error) {
	emu := New(opts...)
	if err := emu.LoadROMFile(romPath); err != nil {
		return nil, err
	}
	return emu, nil
}

// LoadROMFile reads a ROM image from disk and loads it.
func (emu *EMU) LoadROMFile(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	return emu.LoadROM(rom)
}

// LoadROM places rom at the program start address and restarts the machine.
// On error the machine is left exactly as it was.
func (emu *EMU) LoadROM(rom []byte) error {
	if len(rom) > maxRomSize {
		return fmt.Errorf("%w, can't cross %d bytes (got %d)", ErrRomTooLarge, maxRomSize, len(rom))
	}
	emu.rom = append([]byte(nil), rom...)
	emu.Reset()
	return nil
}

// Reset restarts the loaded program from a clean machine state. It also
// clears a halt caused by a fault.
func (emu *EMU) Reset() {
	emu.memory = Memory{}
	emu.memory.loadFont()
	// the size was checked by LoadROM
	_ = emu.memory.Load(ProgramStart, emu.rom)

	emu.opcode = 0
	emu.regs.reset()
	emu.stack.reset()
	emu.display.Clear()
	emu.timers = Timers{}
	emu.keys = Keypad{}
	emu.awaitingKey = false
	emu.keyRegister = 0
	emu.fault = nil
}

// Step runs exactly one fetch-decode-execute cycle. A failing cycle returns a
// *Fault and halts the machine; every later call returns ErrHalted until
// Reset or LoadROM.
func (emu *EMU) Step() error {
	if emu.fault != nil {
		return ErrHalted
	}

	if emu.awaitingKey {
		key, ok := emu.keys.LowestPressed()
		if !ok {
			return nil
		}
		emu.regs.V[emu.keyRegister] = key
		emu.regs.PC += 2
		emu.awaitingKey = false
		return nil
	}

	pc := emu.regs.PC
	word, err := emu.OpcodeAt(pc)
	if err != nil {
		return emu.halt(pc, 0, err)
	}
	emu.opcode = word
	emu.regs.PC += 2

	ins, ok := decode(word)
	if !ok {
		return emu.halt(pc, word, opCodeError(word))
	}
	if err := ins.exec(emu, opcode(word)); err != nil {
		return emu.halt(pc, word, err)
	}
	return nil
}

// halt records a fault. PC is put back on the faulting instruction, none of
// the instructions mutate anything else before failing.
func (emu *EMU) halt(pc, word uint16, err error) error {
	emu.regs.PC = pc
	emu.fault = &Fault{Err: err, PC: pc, Opcode: word}
	return emu.fault
}

// Tick decrements the timers once and reports whether the sound timer
// expired, which is the cue for the sound sink to beep. A halted machine does
// not tick.
func (emu *EMU) Tick() bool {
	if emu.fault != nil {
		return false
	}
	return emu.timers.Tick()
}

// OpcodeAt returns the big-endian instruction word stored at addr.
func (emu *EMU) OpcodeAt(addr uint16) (uint16, error) {
	hi, err := emu.memory.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	lo, err := emu.memory.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// SetKey is called by the input collaborator to report a key change.
func (emu *EMU) SetKey(index uint8, pressed bool) {
	emu.keys.SetKey(index, pressed)
}

func (emu *EMU) IsPressed(index uint8) bool {
	return emu.keys.IsPressed(index)
}

// Frame returns a snapshot of the display.
func (emu *EMU) Frame() Frame {
	return emu.display.Snapshot()
}

// DrawFlag reports whether the display changed since the previous call.
func (emu *EMU) DrawFlag() bool {
	dirty := emu.display.dirty
	emu.display.dirty = false
	return dirty
}

func (emu *EMU) Registers() Registers {
	return emu.regs
}

func (emu *EMU) PC() uint16 {
	return emu.regs.PC
}

// Opcode returns the most recently fetched instruction word.
func (emu *EMU) Opcode() uint16 {
	return emu.opcode
}

func (emu *EMU) DelayTimer() uint8 {
	return emu.timers.Delay
}

func (emu *EMU) SoundTimer() uint8 {
	return emu.timers.Sound
}

func (emu *EMU) StackDepth() int {
	return emu.stack.Depth()
}

// AwaitingKey reports whether the machine is blocked on a key wait.
func (emu *EMU) AwaitingKey() bool {
	return emu.awaitingKey
}

// Halted reports whether a fault stopped the machine.
func (emu *EMU) Halted() bool {
	return emu.fault != nil
}

// Fault returns the fault that halted the machine, or nil.
func (emu *EMU) Fault() *Fault {
	return emu.fault
}

// ReadMemory returns a copy of n bytes of memory starting at addr.
func (emu *EMU) ReadMemory(addr uint16, n int) ([]byte, error) {
	mem, err := emu.memory.Slice(addr, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), mem...), nil
}

// ROMSize returns the size of the loaded program.
func (emu *EMU) ROMSize() int {
	return len(emu.rom)
}
