package cpu

const (
	RegisterCount = 16
	StackDepth    = 16

	// VF is the flag register written by ALU and draw operations.
	VF = 0xF
)

// Registers is the register file of the machine.
type Registers struct {
	V  [RegisterCount]uint8
	I  uint16 //address register
	PC uint16
}

func (r *Registers) reset() {
	*r = Registers{PC: ProgramStart}
}

// Stack holds subroutine return addresses.
type Stack struct {
	entries [StackDepth]uint16
	sp      int
}

func (s *Stack) Push(addr uint16) error {
	if s.sp == StackDepth {
		return ErrStackOverflow
	}
	s.entries[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.entries[s.sp], nil
}

// Depth returns the number of return addresses currently held.
func (s *Stack) Depth() int {
	return s.sp
}

func (s *Stack) reset() {
	*s = Stack{}
}
