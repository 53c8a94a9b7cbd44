package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInstruction = errors.New("truncated instruction")
	ErrUnrecognizedOpcode   = errors.New("unrecognized opcode")
)

// TruncatedInstructionError reports a field that lies past the end of the
// stream. Offset is the position of the instruction's first byte.
type TruncatedInstructionError struct {
	Offset int
	Opcode byte
	Field  string // "mod/reg/rm", "displacement" or "immediate"
	Need   int
	Have   int
}

func (err *TruncatedInstructionError) Error() string {
	return fmt.Sprintf("truncated instruction at offset %d (opcode 0x%02x): %s needs %d bytes, %d available",
		err.Offset, err.Opcode, err.Field, err.Need, err.Have)
}

func (err *TruncatedInstructionError) Is(target error) bool {
	return target == ErrTruncatedInstruction
}

// UnrecognizedOpcodeError reports a leading byte that matches no known pattern.
type UnrecognizedOpcodeError struct {
	Offset int
	Opcode byte
}

func (err *UnrecognizedOpcodeError) Error() string {
	return fmt.Sprintf("unrecognized opcode 0x%02x (%08b) at offset %d", err.Opcode, err.Opcode, err.Offset)
}

func (err *UnrecognizedOpcodeError) Is(target error) bool {
	return target == ErrUnrecognizedOpcode
}

// Offset returns the stream position an error from Next refers to.
func Offset(err error) (int, bool) {
	var te *TruncatedInstructionError
	if errors.As(err, &te) {
		return te.Offset, true
	}
	var ue *UnrecognizedOpcodeError
	if errors.As(err, &ue) {
		return ue.Offset, true
	}
	return 0, false
}
