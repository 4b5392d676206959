package cpu

import "fmt"

// opcode is a fetched instruction word with helpers for its operand fields.
type opcode uint16

func (op opcode) x() uint8    { return uint8(op>>8) & 0x0F }
func (op opcode) y() uint8    { return uint8(op>>4) & 0x0F }
func (op opcode) n() uint8    { return uint8(op) & 0x0F }
func (op opcode) kk() uint8   { return uint8(op) }
func (op opcode) nnn() uint16 { return uint16(op) & 0x0FFF }

// instruction is one row of the decode table. An opcode word matches when
// word&mask == value.
type instruction struct {
	Name   string
	Mask   uint16
	Value  uint16
	exec   func(emu *EMU, op opcode) error
	format func(op opcode) string
}

// instructionSet lists every supported opcode pattern. Within a leading
// nibble the more specific patterns come first.
var instructionSet = []instruction{
	{"CLS", 0xFFFF, 0x00E0, cls, noArgs},
	{"RET", 0xFFFF, 0x00EE, ret, noArgs},
	{"SYS", 0xF000, 0x0000, sys, addrArg},
	{"JP", 0xF000, 0x1000, jp, addrArg},
	{"CALL", 0xF000, 0x2000, call, addrArg},
	{"SE", 0xF000, 0x3000, seByte, regByteArgs},
	{"SNE", 0xF000, 0x4000, sneByte, regByteArgs},
	{"SE", 0xF00F, 0x5000, seReg, regRegArgs},
	{"LD", 0xF000, 0x6000, ldByte, regByteArgs},
	{"ADD", 0xF000, 0x7000, addByte, regByteArgs},
	{"LD", 0xF00F, 0x8000, ldReg, regRegArgs},
	{"OR", 0xF00F, 0x8001, or, regRegArgs},
	{"AND", 0xF00F, 0x8002, and, regRegArgs},
	{"XOR", 0xF00F, 0x8003, xor, regRegArgs},
	{"ADD", 0xF00F, 0x8004, addReg, regRegArgs},
	{"SUB", 0xF00F, 0x8005, sub, regRegArgs},
	{"SHR", 0xF00F, 0x8006, shr, regArg},
	{"SUBN", 0xF00F, 0x8007, subn, regRegArgs},
	{"SHL", 0xF00F, 0x800E, shl, regArg},
	{"SNE", 0xF00F, 0x9000, sneReg, regRegArgs},
	{"LD", 0xF000, 0xA000, ldI, func(op opcode) string { return fmt.Sprintf("I, $%03X", op.nnn()) }},
	{"JP", 0xF000, 0xB000, jpV0, func(op opcode) string { return fmt.Sprintf("V0, $%03X", op.nnn()) }},
	{"RND", 0xF000, 0xC000, rnd, regByteArgs},
	{"DRW", 0xF000, 0xD000, drw, func(op opcode) string { return fmt.Sprintf("V%X, V%X, $%X", op.x(), op.y(), op.n()) }},
	{"SKP", 0xF0FF, 0xE09E, skp, regArg},
	{"SKNP", 0xF0FF, 0xE0A1, sknp, regArg},
	{"LD", 0xF0FF, 0xF007, ldVxDT, func(op opcode) string { return fmt.Sprintf("V%X, DT", op.x()) }},
	{"LD", 0xF0FF, 0xF00A, ldKey, func(op opcode) string { return fmt.Sprintf("V%X, K", op.x()) }},
	{"LD", 0xF0FF, 0xF015, ldDTVx, func(op opcode) string { return fmt.Sprintf("DT, V%X", op.x()) }},
	{"LD", 0xF0FF, 0xF018, ldSTVx, func(op opcode) string { return fmt.Sprintf("ST, V%X", op.x()) }},
	{"ADD", 0xF0FF, 0xF01E, addI, func(op opcode) string { return fmt.Sprintf("I, V%X", op.x()) }},
	{"LD", 0xF0FF, 0xF029, ldFont, func(op opcode) string { return fmt.Sprintf("F, V%X", op.x()) }},
	{"LD", 0xF0FF, 0xF033, ldBCD, func(op opcode) string { return fmt.Sprintf("B, V%X", op.x()) }},
	{"LD", 0xF0FF, 0xF055, store, func(op opcode) string { return fmt.Sprintf("[I], V%X", op.x()) }},
	{"LD", 0xF0FF, 0xF065, load, func(op opcode) string { return fmt.Sprintf("V%X, [I]", op.x()) }},
}

// opcodes groups the instruction set by leading nibble.
var opcodes [16][]*instruction

func init() {
	for i := range instructionSet {
		ins := &instructionSet[i]
		nibble := ins.Value >> 12
		opcodes[nibble] = append(opcodes[nibble], ins)
	}
}

// decode finds the table entry for an opcode word.
func decode(word uint16) (*instruction, bool) {
	for _, ins := range opcodes[word>>12] {
		if word&ins.Mask == ins.Value {
			return ins, true
		}
	}
	return nil, false
}

func noArgs(_ opcode) string       { return "" }
func addrArg(op opcode) string     { return fmt.Sprintf("$%03X", op.nnn()) }
func regArg(op opcode) string      { return fmt.Sprintf("V%X", op.x()) }
func regByteArgs(op opcode) string { return fmt.Sprintf("V%X, $%02X", op.x(), op.kk()) }
func regRegArgs(op opcode) string  { return fmt.Sprintf("V%X, V%X", op.x(), op.y()) }

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.regs.PC += 2
	}
}

func cls(emu *EMU, _ opcode) error {
	emu.display.Clear()
	return nil
}

func ret(emu *EMU, _ opcode) error {
	addr, err := emu.stack.Pop()
	if err != nil {
		return err
	}
	emu.regs.PC = addr
	return nil
}

// machine code routines of the COSMAC VIP are not emulated
func sys(_ *EMU, _ opcode) error {
	return nil
}

func jp(emu *EMU, op opcode) error {
	emu.regs.PC = op.nnn()
	return nil
}

func call(emu *EMU, op opcode) error {
	if err := emu.stack.Push(emu.regs.PC); err != nil {
		return err
	}
	emu.regs.PC = op.nnn()
	return nil
}

func seByte(emu *EMU, op opcode) error {
	emu.skipIf(emu.regs.V[op.x()] == op.kk())
	return nil
}

func sneByte(emu *EMU, op opcode) error {
	emu.skipIf(emu.regs.V[op.x()] != op.kk())
	return nil
}

func seReg(emu *EMU, op opcode) error {
	emu.skipIf(emu.regs.V[op.x()] == emu.regs.V[op.y()])
	return nil
}

func sneReg(emu *EMU, op opcode) error {
	emu.skipIf(emu.regs.V[op.x()] != emu.regs.V[op.y()])
	return nil
}

func ldByte(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] = op.kk()
	return nil
}

func addByte(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] += op.kk()
	return nil
}

func ldReg(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] = emu.regs.V[op.y()]
	return nil
}

func or(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] |= emu.regs.V[op.y()]
	return nil
}

func and(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] &= emu.regs.V[op.y()]
	return nil
}

func xor(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] ^= emu.regs.V[op.y()]
	return nil
}

// The ALU operations below write VF after the result so that the flag wins
// when x is F.

func addReg(emu *EMU, op opcode) error {
	sum := uint16(emu.regs.V[op.x()]) + uint16(emu.regs.V[op.y()])
	emu.regs.V[op.x()] = uint8(sum)
	emu.regs.V[VF] = flag(sum > 0xFF)
	return nil
}

func sub(emu *EMU, op opcode) error {
	vx, vy := emu.regs.V[op.x()], emu.regs.V[op.y()]
	emu.regs.V[op.x()] = vx - vy
	emu.regs.V[VF] = flag(vx > vy)
	return nil
}

func shr(emu *EMU, op opcode) error {
	vx := emu.regs.V[op.x()]
	emu.regs.V[op.x()] = vx >> 1
	emu.regs.V[VF] = vx & 0x01
	return nil
}

func subn(emu *EMU, op opcode) error {
	vx, vy := emu.regs.V[op.x()], emu.regs.V[op.y()]
	emu.regs.V[op.x()] = vy - vx
	emu.regs.V[VF] = flag(vy > vx)
	return nil
}

func shl(emu *EMU, op opcode) error {
	vx := emu.regs.V[op.x()]
	emu.regs.V[op.x()] = vx << 1
	emu.regs.V[VF] = vx >> 7
	return nil
}

func ldI(emu *EMU, op opcode) error {
	emu.regs.I = op.nnn()
	return nil
}

func jpV0(emu *EMU, op opcode) error {
	emu.regs.PC = op.nnn() + uint16(emu.regs.V[0])
	return nil
}

func rnd(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] = uint8(emu.random.Intn(256)) & op.kk()
	return nil
}

func drw(emu *EMU, op opcode) error {
	sprite, err := emu.memory.Slice(emu.regs.I, int(op.n()))
	if err != nil {
		return err
	}
	collision := emu.display.DrawSprite(emu.regs.V[op.x()], emu.regs.V[op.y()], sprite)
	emu.regs.V[VF] = flag(collision)
	return nil
}

func skp(emu *EMU, op opcode) error {
	emu.skipIf(emu.keys.IsPressed(emu.regs.V[op.x()]))
	return nil
}

func sknp(emu *EMU, op opcode) error {
	emu.skipIf(!emu.keys.IsPressed(emu.regs.V[op.x()]))
	return nil
}

func ldVxDT(emu *EMU, op opcode) error {
	emu.regs.V[op.x()] = emu.timers.Delay
	return nil
}

// ldKey completes at once when a key is already held. Otherwise the machine
// enters the awaiting key state with PC left on this instruction; Step then
// polls the keypad once per call until a key shows up.
func ldKey(emu *EMU, op opcode) error {
	if key, ok := emu.keys.LowestPressed(); ok {
		emu.regs.V[op.x()] = key
		return nil
	}
	emu.awaitingKey = true
	emu.keyRegister = op.x()
	emu.regs.PC -= 2
	return nil
}

func ldDTVx(emu *EMU, op opcode) error {
	emu.timers.Delay = emu.regs.V[op.x()]
	return nil
}

func ldSTVx(emu *EMU, op opcode) error {
	emu.timers.Sound = emu.regs.V[op.x()]
	return nil
}

func addI(emu *EMU, op opcode) error {
	emu.regs.I += uint16(emu.regs.V[op.x()])
	return nil
}

func ldFont(emu *EMU, op opcode) error {
	emu.regs.I = FontStart + uint16(emu.regs.V[op.x()])*GlyphSize
	return nil
}

func ldBCD(emu *EMU, op opcode) error {
	digits, err := emu.memory.Slice(emu.regs.I, 3)
	if err != nil {
		return err
	}
	v := emu.regs.V[op.x()]
	digits[0] = v / 100
	digits[1] = (v / 10) % 10
	digits[2] = v % 10
	return nil
}

func store(emu *EMU, op opcode) error {
	n := int(op.x()) + 1
	mem, err := emu.memory.Slice(emu.regs.I, n)
	if err != nil {
		return err
	}
	copy(mem, emu.regs.V[:n])
	emu.regs.I += uint16(n)
	return nil
}

func load(emu *EMU, op opcode) error {
	n := int(op.x()) + 1
	mem, err := emu.memory.Slice(emu.regs.I, n)
	if err != nil {
		return err
	}
	copy(emu.regs.V[:n], mem)
	emu.regs.I += uint16(n)
	return nil
}
