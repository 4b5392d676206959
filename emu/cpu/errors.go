package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
	ErrStackUnderflow    = errors.New("return with empty stack")
	ErrStackOverflow     = errors.New("call stack overflow")
	ErrRomTooLarge       = errors.New("ROM too big")
	ErrUnknownOpcode     = errors.New("unknown opcode")

	// ErrHalted is returned by Step after a fault until the machine is reset.
	ErrHalted = errors.New("machine halted")
)

// Fault is a failure raised while executing a single cycle. It wraps one of
// the sentinel errors above and records where it happened.
type Fault struct {
	Err    error
	PC     uint16 // address of the faulting instruction
	Opcode uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v (pc=%#04x opcode=%#04x)", f.Err, f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// opCodeError builds the error returned for an opcode with no table entry.
func opCodeError(opcode uint16) error {
	return fmt.Errorf("%w: %04X", ErrUnknownOpcode, opcode)
}
