// Package disasm defines the decoded instruction record shared by the
// decoder and the output formatters.
package disasm

// Width selects between the byte and word halves of a register or value.
type Width uint8

const (
	Byte Width = 0
	Word Width = 1
)

func (w Width) String() string {
	if w == Word {
		return "word"
	}
	return "byte"
}

// Form identifies the opcode pattern an instruction was decoded from.
type Form uint8

const (
	FormUnknown Form = iota
	FormRegMem       // 100010dw mod reg r/m
	FormImmToReg     // 1011wreg data
)

func (f Form) String() string {
	switch f {
	case FormRegMem:
		return "reg/mem"
	case FormImmToReg:
		return "imm-to-reg"
	default:
		return "unknown"
	}
}

// Operand is one side of an instruction. The set of variants is closed:
// Register, Memory and Immediate.
type Operand interface {
	operand()
}

// Register is one of the eight register slots at a given width.
type Register struct {
	Index uint8 // 0-7
	Width Width
}

// Memory is an effective address. DispSize is the number of displacement
// bytes the encoding carried (0, 1 or 2).
type Memory struct {
	Base     string
	Index    string // empty when there is no index register
	Disp     int16
	DispSize uint8
	Direct   bool // Disp is an absolute 16-bit address
}

// Immediate is a literal value encoded in the instruction stream.
type Immediate struct {
	Value uint16
	Width Width
}

func (Register) operand()  {}
func (Memory) operand()    {}
func (Immediate) operand() {}

// Instruction is one decoded instruction.
type Instruction struct {
	Op     string  // mnemonic in lowercase
	Form   Form    // opcode pattern that matched
	Dst    Operand // destination operand
	Src    Operand // source operand
	Offset int     // position of the first byte in the stream
	Raw    []byte  // raw encoding
}

// Size returns the number of bytes the instruction occupies.
func (i Instruction) Size() int {
	return len(i.Raw)
}

func (i Instruction) String() string {
	return Format(i)
}
