// Package decoder turns a stream of 8086 machine code into decoded
// instructions. Only the mov forms
//
//	100010dw mod reg r/m [disp-lo] [disp-hi]
//	1011wreg data [data]
//
// are recognized; any other leading byte is reported as an
// UnrecognizedOpcodeError.
package decoder

import (
	"iter"

	"sim8086/internal/disasm"
)

// Decoder decodes one stream. It is not safe for concurrent use; decode
// independent streams with independent decoders.
type Decoder struct {
	stream        *Stream
	directAddress bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithDirectAddress decodes mode 00 with r/m 110 as a 16-bit direct address
// instead of [bp].
func WithDirectAddress() Option {
	return func(d *Decoder) {
		d.directAddress = true
	}
}

// New returns a decoder positioned at the start of data.
func New(data []byte, opts ...Option) *Decoder {
	d := &Decoder{stream: NewStream(data)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stream returns the underlying stream.
func (d *Decoder) Stream() *Stream {
	return d.stream
}

// Next decodes the instruction at the cursor. On success the cursor is left
// at the start of the following instruction. On error the cursor is not
// moved.
func (d *Decoder) Next() (disasm.Instruction, error) {
	r := &reader{s: d.stream, start: d.stream.pos, pos: d.stream.pos}

	op, ok := d.stream.at(r.start)
	if !ok {
		return disasm.Instruction{}, &TruncatedInstructionError{
			Offset: r.start,
			Field:  "opcode",
			Need:   1,
		}
	}
	r.op = op
	r.pos++

	for _, p := range patterns {
		if !p.match(op) {
			continue
		}
		inst, err := p.decode(d, r)
		if err != nil {
			return disasm.Instruction{}, err
		}
		inst.Offset = r.start
		inst.Raw = d.stream.slice(r.start, r.pos)
		d.stream.pos = r.pos
		return inst, nil
	}

	return disasm.Instruction{}, &UnrecognizedOpcodeError{Offset: r.start, Opcode: op}
}

// All decodes until the end of the stream. The sequence shares the
// decoder's cursor: it stops after yielding the first error, and ranging
// over it again resumes wherever the cursor was left.
func (d *Decoder) All() iter.Seq2[disasm.Instruction, error] {
	return func(yield func(disasm.Instruction, error) bool) {
		for !d.stream.Done() {
			inst, err := d.Next()
			if err != nil {
				yield(inst, err)
				return
			}
			if !yield(inst, nil) {
				return
			}
		}
	}
}

// Decode decodes all of data. It returns the instructions decoded before
// the first error along with that error.
func Decode(data []byte, opts ...Option) ([]disasm.Instruction, error) {
	var out []disasm.Instruction
	for inst, err := range New(data, opts...).All() {
		if err != nil {
			return out, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// reader tracks the bytes consumed by the instruction being decoded. Its
// position is committed to the stream only when decoding succeeds.
type reader struct {
	s     *Stream
	start int
	pos   int
	op    byte
}

func (r *reader) truncated(field string, need int) error {
	have := r.s.Len() - r.pos
	if have < 0 {
		have = 0
	}
	return &TruncatedInstructionError{
		Offset: r.start,
		Opcode: r.op,
		Field:  field,
		Need:   need,
		Have:   have,
	}
}

func (r *reader) readByte(field string) (byte, error) {
	b, ok := r.s.at(r.pos)
	if !ok {
		return 0, r.truncated(field, 1)
	}
	r.pos++
	return b, nil
}

// readWord reads a little-endian 16-bit value.
func (r *reader) readWord(field string) (uint16, error) {
	lo, okLo := r.s.at(r.pos)
	hi, okHi := r.s.at(r.pos + 1)
	if !okLo || !okHi {
		return 0, r.truncated(field, 2)
	}
	r.pos += 2
	return uint16(hi)<<8 | uint16(lo), nil
}

func decodeRegMem(d *Decoder, r *reader) (disasm.Instruction, error) {
	dir := r.op >> 1 & 0b1
	w := disasm.Width(r.op & 0b1)

	modrm, err := r.readByte("mod/reg/rm")
	if err != nil {
		return disasm.Instruction{}, err
	}
	mod := modrm >> 6 & 0b11
	reg := modrm >> 3 & 0b111
	rm := modrm & 0b111

	regOp := disasm.Register{Index: reg, Width: w}

	var rmOp disasm.Operand
	switch mod {
	case modRegister:
		rmOp = disasm.Register{Index: rm, Width: w}
	case modMemory, modMemoryDisp8, modMemoryDisp16:
		mem, err := d.effectiveAddress(r, mod, rm)
		if err != nil {
			return disasm.Instruction{}, err
		}
		rmOp = mem
	}

	inst := disasm.Instruction{Op: "mov", Form: disasm.FormRegMem}
	if dir == 1 {
		inst.Dst, inst.Src = regOp, rmOp
	} else {
		inst.Dst, inst.Src = rmOp, regOp
	}
	return inst, nil
}

func (d *Decoder) effectiveAddress(r *reader, mod, rm byte) (disasm.Memory, error) {
	if mod == modMemory && rm == rmDirect && d.directAddress {
		addr, err := r.readWord("displacement")
		if err != nil {
			return disasm.Memory{}, err
		}
		return disasm.Memory{Disp: int16(addr), DispSize: 2, Direct: true}, nil
	}

	// rm <= 3 selects the base + index forms.
	ea := eaTable[rm]
	mem := disasm.Memory{Base: ea.base}
	if rm <= 0b011 {
		mem.Index = ea.index
	}

	switch mod {
	case modMemoryDisp8:
		b, err := r.readByte("displacement")
		if err != nil {
			return disasm.Memory{}, err
		}
		mem.Disp = int16(int8(b))
		mem.DispSize = 1
	case modMemoryDisp16:
		v, err := r.readWord("displacement")
		if err != nil {
			return disasm.Memory{}, err
		}
		mem.Disp = int16(v)
		mem.DispSize = 2
	}
	return mem, nil
}

func decodeImmToReg(_ *Decoder, r *reader) (disasm.Instruction, error) {
	w := disasm.Width(r.op >> 3 & 0b1)
	reg := r.op & 0b111

	imm := disasm.Immediate{Width: w}
	if w == disasm.Word {
		v, err := r.readWord("immediate")
		if err != nil {
			return disasm.Instruction{}, err
		}
		imm.Value = v
	} else {
		b, err := r.readByte("immediate")
		if err != nil {
			return disasm.Instruction{}, err
		}
		imm.Value = uint16(b)
	}

	return disasm.Instruction{
		Op:   "mov",
		Form: disasm.FormImmToReg,
		Dst:  disasm.Register{Index: reg, Width: w},
		Src:  imm,
	}, nil
}
