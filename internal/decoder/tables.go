package decoder

import "sim8086/internal/disasm"

// Field values of the mod/reg/rm byte.
const (
	modMemory       = 0b00
	modMemoryDisp8  = 0b01
	modMemoryDisp16 = 0b10
	modRegister     = 0b11
)

// rmDirect is the r/m value that selects a direct address in mode 00 on a
// real 8086.
const rmDirect = 0b110

// eaTable lists the base and index registers selected by r/m.
// Entries 4-7 have no index register.
var eaTable = [8]struct {
	base, index string
}{
	{"bx", "si"},
	{"bx", "di"},
	{"bp", "si"},
	{"bp", "di"},
	{"si", ""},
	{"di", ""},
	{"bp", ""},
	{"bx", ""},
}

// pattern is one opcode family. Patterns are matched in order and the first
// match wins.
type pattern struct {
	name   string
	mask   byte
	value  byte
	decode func(d *Decoder, r *reader) (disasm.Instruction, error)
}

var patterns = []pattern{
	{"mov reg/mem to/from reg", 0b1111_1100, 0b1000_1000, decodeRegMem},
	{"mov imm to reg", 0b1111_0000, 0b1011_0000, decodeImmToReg},
}

func (p pattern) match(b byte) bool {
	return b&p.mask == p.value
}

// Describe returns the name of the opcode family op belongs to.
func Describe(op byte) (string, bool) {
	for _, p := range patterns {
		if p.match(op) {
			return p.name, true
		}
	}
	return "", false
}
