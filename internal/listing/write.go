package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteOptions controls the assembly text layout.
type WriteOptions struct {
	Offsets  bool                // prefix each line with its stream offset
	Bytes    bool                // prefix each line with its raw bytes
	Colorize func(string) string // applied to the instruction text, may be nil
}

// WriteASM writes the header followed by one line per entry. Annotations
// are written as comments so the output still assembles.
func WriteASM(w io.Writer, l Listing, opts WriteOptions) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return err
	}
	for _, e := range l.Entries {
		if _, err := fmt.Fprintln(w, formatLine(e, opts)); err != nil {
			return err
		}
	}
	return nil
}

func formatLine(e Entry, opts WriteOptions) string {
	var b strings.Builder
	if opts.Offsets {
		fmt.Fprintf(&b, "%04x  ", e.Offset)
	}
	if opts.Bytes {
		fmt.Fprintf(&b, "%-12s ", HexBytes(e.Raw))
	}

	text := e.Text
	if len(e.Annotations) > 0 {
		text = fmt.Sprintf("%-30s ; %s", text, strings.Join(e.Annotations, ", "))
	}
	if opts.Colorize != nil {
		text = opts.Colorize(text)
	}
	b.WriteString(text)
	return b.String()
}

// Document is the JSON form of a listing.
type Document struct {
	Digest       string        `json:"digest"`
	Size         int           `json:"size"`
	Instructions []DocumentRow `json:"instructions"`
	Error        *DocumentErr  `json:"error,omitempty"`
}

// DocumentRow is one entry of a Document.
type DocumentRow struct {
	Offset      int      `json:"offset"`
	Bytes       string   `json:"bytes"`
	Text        string   `json:"text"`
	Form        string   `json:"form,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
}

// DocumentErr describes the error that stopped decoding.
type DocumentErr struct {
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

// NewDocument converts a listing to its JSON form.
func NewDocument(l Listing) Document {
	doc := Document{
		Digest:       l.Digest,
		Size:         l.Size,
		Instructions: make([]DocumentRow, 0, len(l.Entries)),
	}
	for _, e := range l.Entries {
		row := DocumentRow{
			Offset:      e.Offset,
			Bytes:       HexBytes(e.Raw),
			Text:        e.Text,
			Annotations: e.Annotations,
		}
		if e.Inst != nil {
			row.Form = e.Inst.Form.String()
		}
		doc.Instructions = append(doc.Instructions, row)
	}
	if l.Err != nil {
		doc.Error = &DocumentErr{Offset: errOffset(l), Message: l.Err.Error()}
	}
	return doc
}

// WriteJSON writes the listing as an indented JSON document.
func WriteJSON(w io.Writer, l Listing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(l)); err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	return nil
}
