// Package listing drives a decoding session over a whole image and renders
// the result as assembly text, JSON or markdown.
package listing

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"sim8086/internal/decoder"
	"sim8086/internal/disasm"
)

// Header is the directive emitted once before the first instruction.
const Header = "bits 16"

// Checker validates a decoded instruction against the stream it came from.
type Checker interface {
	Check(src []byte, inst disasm.Instruction) error
}

// Options controls a decoding session.
type Options struct {
	DirectAddress bool    // decode mode 00 r/m 110 as a direct address
	KeepGoing     bool    // emit a db line for bad bytes and continue
	Checker       Checker // optional cross-check, failures become annotations
}

// Entry is one line of the listing: a decoded instruction, or a data byte
// that could not be decoded.
type Entry struct {
	Offset      int
	Raw         []byte
	Text        string
	Inst        *disasm.Instruction // nil for data bytes
	Err         error               // decode error for data bytes
	Annotations []string
}

// String formats the entry with its offset and raw bytes.
func (e Entry) String() string {
	base := fmt.Sprintf("%04x  %-12s %s", e.Offset, HexBytes(e.Raw), e.Text)
	if len(e.Annotations) > 0 {
		return fmt.Sprintf("%-50s ; %s", base, strings.Join(e.Annotations, ", "))
	}
	return base
}

// Listing is the result of decoding one image.
type Listing struct {
	Entries []Entry
	Size    int
	Digest  string
	Err     error // error that stopped decoding, nil if the image was consumed
}

// Build decodes data. Without KeepGoing decoding stops at the first error,
// which is stored in Err.
func Build(data []byte, opts Options) Listing {
	l := Listing{
		Size:   len(data),
		Digest: fmt.Sprintf("%x", sha256.Sum256(data)),
	}

	var decOpts []decoder.Option
	if opts.DirectAddress {
		decOpts = append(decOpts, decoder.WithDirectAddress())
	}
	d := decoder.New(data, decOpts...)
	s := d.Stream()

	for !s.Done() {
		for inst, err := range d.All() {
			if err != nil {
				if !opts.KeepGoing {
					l.Err = err
					return l
				}
				l.Entries = append(l.Entries, dataEntry(data, s.Pos(), err))
				// All stops after yielding an error, so the skip is seen by the
				// next pass of the outer loop.
				_ = s.Skip(1)
				continue
			}

			e := Entry{
				Offset: inst.Offset,
				Raw:    inst.Raw,
				Text:   inst.String(),
				Inst:   &inst,
			}
			if opts.Checker != nil {
				if cerr := opts.Checker.Check(data[inst.Offset:], inst); cerr != nil {
					e.Annotations = append(e.Annotations, cerr.Error())
				}
			}
			l.Entries = append(l.Entries, e)
		}
	}
	return l
}

func dataEntry(data []byte, pos int, err error) Entry {
	return Entry{
		Offset:      pos,
		Raw:         data[pos : pos+1 : pos+1],
		Text:        fmt.Sprintf("db 0x%02x", data[pos]),
		Err:         err,
		Annotations: []string{err.Error()},
	}
}

// Instructions returns the decoded instructions in stream order.
func (l Listing) Instructions() []disasm.Instruction {
	out := make([]disasm.Instruction, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.Inst != nil {
			out = append(out, *e.Inst)
		}
	}
	return out
}

// Errors returns the decode errors recorded as data entries, followed by
// the error that stopped decoding, if any.
func (l Listing) Errors() []error {
	var errs []error
	for _, e := range l.Entries {
		if e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	if l.Err != nil {
		errs = append(errs, l.Err)
	}
	return errs
}

// Counts returns the number of instructions per opcode form.
func (l Listing) Counts() map[disasm.Form]int {
	counts := make(map[disasm.Form]int)
	for _, e := range l.Entries {
		if e.Inst != nil {
			counts[e.Inst.Form]++
		}
	}
	return counts
}

// HexBytes formats raw bytes as space separated hex pairs.
func HexBytes(raw []byte) string {
	return fmt.Sprintf("% x", raw)
}
