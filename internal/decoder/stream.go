package decoder

import "fmt"

// Stream is an immutable byte buffer with a read cursor.
type Stream struct {
	data []byte
	pos  int
}

// NewStream wraps data. The slice must not be modified while the stream is in use.
func NewStream(data []byte) *Stream {
	return &Stream{data: data}
}

// Pos returns the cursor position.
func (s *Stream) Pos() int { return s.pos }

// Len returns the total length of the stream.
func (s *Stream) Len() int { return len(s.data) }

// Remaining returns the number of unread bytes.
func (s *Stream) Remaining() int { return len(s.data) - s.pos }

// Done reports whether the cursor is at the end of the stream.
func (s *Stream) Done() bool { return s.pos >= len(s.data) }

// Bytes returns the unread part of the stream.
func (s *Stream) Bytes() []byte { return s.data[s.pos:] }

// Skip advances the cursor by n bytes.
func (s *Stream) Skip(n int) error {
	if n < 0 || n > s.Remaining() {
		return fmt.Errorf("skip %d bytes at offset %d: %d remaining", n, s.pos, s.Remaining())
	}
	s.pos += n
	return nil
}

// at returns the byte at absolute position i.
func (s *Stream) at(i int) (byte, bool) {
	if i < 0 || i >= len(s.data) {
		return 0, false
	}
	return s.data[i], true
}

// slice returns data[from:to] capped so appends cannot touch the buffer.
func (s *Stream) slice(from, to int) []byte {
	return s.data[from:to:to]
}
