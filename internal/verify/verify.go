// Package verify cross-checks decoded instructions against the x86asm
// decoder from golang.org/x/arch running in 16-bit mode.
package verify

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"sim8086/internal/disasm"
)

// MismatchError reports an instruction that x86asm decodes differently.
type MismatchError struct {
	Offset int
	Ours   int    // length we decoded
	Theirs int    // length x86asm decoded
	Op     string // mnemonic x86asm decoded
}

func (err *MismatchError) Error() string {
	return fmt.Sprintf("x86asm disagrees at offset %d: %s, %d bytes (decoded %d)",
		err.Offset, err.Op, err.Theirs, err.Ours)
}

// Checker decodes with x86asm and compares the result.
type Checker struct {
	mode int
}

// New returns a Checker for 16-bit code.
func New() *Checker {
	return &Checker{mode: 16}
}

// Check decodes src, the stream starting at inst, and compares the opcode
// family and length with inst.
func (c *Checker) Check(src []byte, inst disasm.Instruction) error {
	ref, err := x86asm.Decode(src, c.mode)
	if err != nil {
		return fmt.Errorf("x86asm decode at offset %d: %w", inst.Offset, err)
	}

	op := strings.ToLower(ref.Op.String())
	if op != inst.Op || ref.Len != inst.Size() {
		return &MismatchError{
			Offset: inst.Offset,
			Ours:   inst.Size(),
			Theirs: ref.Len,
			Op:     op,
		}
	}
	return nil
}

// Syntax returns the Intel syntax x86asm produces for src.
func (c *Checker) Syntax(src []byte, pc uint64) (string, error) {
	ref, err := x86asm.Decode(src, c.mode)
	if err != nil {
		return "", err
	}
	return x86asm.IntelSyntax(ref, pc, nil), nil
}
