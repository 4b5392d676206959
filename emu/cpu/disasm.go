package cpu

import "fmt"

// Disassemble returns the assembly mnemonic for an opcode word, for example
// "LD V1, $0A". Words with no matching instruction are rendered as data.
func Disassemble(word uint16) string {
	ins, ok := decode(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}
	if args := ins.format(opcode(word)); args != "" {
		return ins.Name + " " + args
	}
	return ins.Name
}

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Opcode  uint16
	Text    string
}

// DisassembleROM decodes a ROM image linearly, two bytes at a time, as it
// would be laid out from ProgramStart. A trailing odd byte is emitted as
// data.
func DisassembleROM(rom []byte) []Line {
	lines := make([]Line, 0, (len(rom)+1)/2)
	for i := 0; i < len(rom); i += 2 {
		addr := uint16(ProgramStart + i)
		if i+1 == len(rom) {
			lines = append(lines, Line{Address: addr, Opcode: uint16(rom[i]), Text: fmt.Sprintf(".byte $%02X", rom[i])})
			break
		}
		word := uint16(rom[i])<<8 | uint16(rom[i+1])
		lines = append(lines, Line{Address: addr, Opcode: word, Text: Disassemble(word)})
	}
	return lines
}
