package cpu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	emu := New()
	assert.Equal(t, uint16(ProgramStart), emu.PC())
	assert.Equal(t, 0, emu.StackDepth())
	assert.False(t, emu.Halted())
	assert.False(t, emu.AwaitingKey())
	assert.Equal(t, Frame{}, emu.Frame())
}

func TestLoadROMRoundTrip(t *testing.T) {
	rom := []byte{0x60, 0x0A, 0xA2, 0x2A, 0xD0, 0x15, 0x12, 0x06, 0xFF}
	emu := New()
	assert.NoError(t, emu.LoadROM(rom))

	got, err := emu.ReadMemory(ProgramStart, len(rom))
	assert.NoError(t, err)
	if diff := cmp.Diff(rom, got); diff != "" {
		t.Errorf("program memory: (-want, +got)\n%s", diff)
	}
	assert.Equal(t, len(rom), emu.ROMSize())
}

func TestLoadROMTooLarge(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"largest", MemorySize - ProgramStart, false},
		{"too large", MemorySize - ProgramStart + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, 0x6133)
			assert.NoError(t, emu.Step())

			err := emu.LoadROM(make([]byte, tt.size))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrRomTooLarge))

			// previous program and state untouched
			assert.Equal(t, uint8(0x33), emu.regs.V[1])
			assert.Equal(t, uint16(0x202), emu.PC())
			word, err := emu.OpcodeAt(ProgramStart)
			assert.NoError(t, err)
			assert.Equal(t, uint16(0x6133), word)
		})
	}
}

func TestLoadROMFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x00, 0xE0}, 0644))

	emu, err := NewEMU(path)
	assert.NoError(t, err)
	word, err := emu.OpcodeAt(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x00E0), word)

	_, err = NewEMU(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCallAndReturn(t *testing.T) {
	emu := newTestEMU(t, 0x2206, 0x0000, 0x0000, 0x00EE)

	assert.NoError(t, emu.Step())
	assert.Equal(t, uint16(0x206), emu.PC())
	assert.Equal(t, 1, emu.StackDepth())

	assert.NoError(t, emu.Step())
	assert.Equal(t, uint16(0x202), emu.PC())
	assert.Equal(t, 0, emu.StackDepth())
}

func TestReturnOnEmptyStackHalts(t *testing.T) {
	emu := newTestEMU(t, 0x00EE)

	err := emu.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0x00EE), fault.Opcode)

	assert.True(t, emu.Halted())
	assert.Equal(t, uint16(0x200), emu.PC())
	assert.Equal(t, ErrHalted, emu.Step())

	emu.Reset()
	assert.False(t, emu.Halted())
	assert.True(t, emu.Fault() == nil)
}

func TestCallOverflow(t *testing.T) {
	emu := newTestEMU(t, 0x2200)

	for i := 0; i < StackDepth; i++ {
		assert.NoError(t, emu.Step())
	}
	err := emu.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackDepth, emu.StackDepth())
}

func TestUnknownOpcodeHalts(t *testing.T) {
	emu := newTestEMU(t, 0x5121)

	err := emu.Step()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.True(t, emu.Halted())
}

func TestFetchOutOfBounds(t *testing.T) {
	emu := newTestEMU(t, 0x1FFF)

	assert.NoError(t, emu.Step())
	err := emu.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, uint16(0xFFF), emu.PC())
}

func TestDrawOutOfBoundsLeavesDisplay(t *testing.T) {
	emu := newTestEMU(t, 0xAFFE, 0xD005)
	assert.NoError(t, emu.Step())
	emu.DrawFlag()

	err := emu.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, Frame{}, emu.Frame())
	assert.False(t, emu.DrawFlag())
}

func TestStoreOutOfBoundsLeavesMemory(t *testing.T) {
	emu := newTestEMU(t, 0xAFFE, 0xF255)
	assert.NoError(t, emu.Step())

	err := emu.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, uint16(0xFFE), emu.regs.I)
	assert.Equal(t, uint8(0), emu.memory[0xFFE])
}

func TestKeyWait(t *testing.T) {
	emu := newTestEMU(t, 0xF30A, 0x6001)

	for i := 0; i < 5; i++ {
		assert.NoError(t, emu.Step())
		assert.True(t, emu.AwaitingKey())
		assert.Equal(t, uint16(0x200), emu.PC())
	}

	emu.SetKey(7, true)
	emu.SetKey(2, true)
	assert.NoError(t, emu.Step())
	assert.False(t, emu.AwaitingKey())
	assert.Equal(t, uint8(2), emu.regs.V[3])
	assert.Equal(t, uint16(0x202), emu.PC())

	assert.NoError(t, emu.Step())
	assert.Equal(t, uint8(1), emu.regs.V[0])
}

func TestKeyWaitWithKeyHeld(t *testing.T) {
	emu := newTestEMU(t, 0xF30A)
	emu.SetKey(0xB, true)

	assert.NoError(t, emu.Step())
	assert.False(t, emu.AwaitingKey())
	assert.Equal(t, uint8(0xB), emu.regs.V[3])
	assert.Equal(t, uint16(0x202), emu.PC())
}

func TestTickBeeps(t *testing.T) {
	emu := newTestEMU(t, 0x6101, 0xF118)
	assert.NoError(t, emu.Step())
	assert.NoError(t, emu.Step())
	assert.Equal(t, uint8(1), emu.SoundTimer())

	assert.True(t, emu.Tick())
	assert.Equal(t, uint8(0), emu.SoundTimer())
	assert.False(t, emu.Tick())
	assert.Equal(t, uint8(0), emu.SoundTimer())
}

func TestHaltedMachineDoesNotTick(t *testing.T) {
	emu := newTestEMU(t, 0x6105, 0xF115, 0x00EE)
	assert.NoError(t, emu.Step())
	assert.NoError(t, emu.Step())
	assert.True(t, errors.Is(emu.Step(), ErrStackUnderflow))

	emu.Tick()
	assert.Equal(t, uint8(5), emu.DelayTimer())
}

func TestResetRestartsProgram(t *testing.T) {
	emu := newTestEMU(t, 0x6005, 0xA300, 0xF055)
	for i := 0; i < 3; i++ {
		assert.NoError(t, emu.Step())
	}
	assert.Equal(t, uint8(5), emu.memory[0x300])

	emu.Reset()
	assert.Equal(t, uint16(ProgramStart), emu.PC())
	assert.Equal(t, Registers{PC: ProgramStart}, emu.Registers())
	assert.Equal(t, uint8(0), emu.memory[0x300])

	word, err := emu.OpcodeAt(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x6005), word)
}

func TestDrawFlag(t *testing.T) {
	emu := newTestEMU(t, 0x6001, 0xD015)
	emu.DrawFlag()

	assert.NoError(t, emu.Step())
	assert.False(t, emu.DrawFlag())

	assert.NoError(t, emu.Step())
	assert.True(t, emu.DrawFlag())
	assert.False(t, emu.DrawFlag())
}
