package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterName(t *testing.T) {
	byteNames := []string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
	wordNames := []string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

	for i := range 8 {
		assert.Equal(t, byteNames[i], RegisterName(uint8(i), Byte))
		assert.Equal(t, wordNames[i], RegisterName(uint8(i), Word))
	}
}

func TestFormatOperand(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		want string
	}{
		{"byte register", Register{Index: 1, Width: Byte}, "cl"},
		{"word register", Register{Index: 4, Width: Word}, "sp"},
		{"base and index", Memory{Base: "bx", Index: "si"}, "[bx + si]"},
		{"base only", Memory{Base: "di"}, "[di]"},
		{"explicit zero disp8", Memory{Base: "bp", DispSize: 1}, "[bp + 0]"},
		{"negative disp8", Memory{Base: "bx", Index: "si", Disp: -1, DispSize: 1}, "[bx + si + -1]"},
		{"disp16", Memory{Base: "bp", Index: "di", Disp: 4660, DispSize: 2}, "[bp + di + 4660]"},
		{"direct address", Memory{Direct: true, Disp: -1, DispSize: 2}, "[65535]"},
		{"byte immediate", Immediate{Value: 200, Width: Byte}, "200"},
		{"word immediate", Immediate{Value: 256, Width: Word}, "256"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOperand(tt.op))
		})
	}
}

func TestFormat(t *testing.T) {
	inst := Instruction{
		Op:   "mov",
		Form: FormRegMem,
		Dst:  Memory{Base: "bp", DispSize: 1},
		Src:  Register{Index: 5, Width: Byte},
		Raw:  []byte{0x88, 0x6e, 0x00},
	}

	assert.Equal(t, "mov [bp + 0], ch", Format(inst))
	assert.Equal(t, "mov [bp + 0], ch", inst.String())
	assert.Equal(t, 3, inst.Size())
}

func TestFormString(t *testing.T) {
	assert.Equal(t, "reg/mem", FormRegMem.String())
	assert.Equal(t, "imm-to-reg", FormImmToReg.String())
	assert.Equal(t, "unknown", FormUnknown.String())
	assert.Equal(t, "word", Word.String())
	assert.Equal(t, "byte", Byte.String())
}
