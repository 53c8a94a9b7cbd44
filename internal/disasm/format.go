package disasm

import (
	"fmt"
	"strconv"
	"strings"
)

// registerNames is indexed by [register field][w bit].
var registerNames = [8][2]string{
	{"al", "ax"},
	{"cl", "cx"},
	{"dl", "dx"},
	{"bl", "bx"},
	{"ah", "sp"},
	{"ch", "bp"},
	{"dh", "si"},
	{"bh", "di"},
}

// RegisterName returns the canonical name of register slot index at width w.
func RegisterName(index uint8, w Width) string {
	return registerNames[index&0x7][w&0x1]
}

// Name returns the two-letter register name.
func (r Register) Name() string {
	return RegisterName(r.Index, r.Width)
}

func (r Register) String() string   { return r.Name() }
func (m Memory) String() string     { return FormatOperand(m) }
func (im Immediate) String() string { return FormatOperand(im) }

// Format renders an instruction as a single line of assembly text.
func Format(i Instruction) string {
	return fmt.Sprintf("%s %s, %s", i.Op, FormatOperand(i.Dst), FormatOperand(i.Src))
}

// FormatOperand renders a single operand.
func FormatOperand(op Operand) string {
	switch o := op.(type) {
	case Register:
		return o.Name()
	case Memory:
		return formatMemory(o)
	case Immediate:
		return strconv.FormatUint(uint64(o.Value), 10)
	case nil:
		return "?"
	default:
		panic(fmt.Sprintf("disasm: unknown operand %T", op))
	}
}

func formatMemory(m Memory) string {
	if m.Direct {
		return "[" + strconv.FormatUint(uint64(uint16(m.Disp)), 10) + "]"
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(m.Base)
	if m.Index != "" {
		b.WriteString(" + ")
		b.WriteString(m.Index)
	}
	// A zero displacement is still printed when the encoding carried one.
	if m.DispSize > 0 {
		b.WriteString(" + ")
		b.WriteString(strconv.Itoa(int(m.Disp)))
	}
	b.WriteString("]")
	return b.String()
}
