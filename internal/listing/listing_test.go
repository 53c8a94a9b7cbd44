package listing

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sim8086/internal/decoder"
	"sim8086/internal/disasm"
)

var badByte = []byte{0x89, 0xd9, 0x00, 0x88, 0xc8}

func TestBuildStopsAtFirstError(t *testing.T) {
	l := Build(badByte, Options{})

	require.Len(t, l.Entries, 1)
	assert.Equal(t, "mov cx, bx", l.Entries[0].Text)
	assert.ErrorIs(t, l.Err, decoder.ErrUnrecognizedOpcode)
	assert.Equal(t, 5, l.Size)
	assert.Len(t, l.Digest, 64)
	assert.Len(t, l.Errors(), 1)
}

func TestBuildKeepGoing(t *testing.T) {
	l := Build(badByte, Options{KeepGoing: true})

	require.NoError(t, l.Err)
	require.Len(t, l.Entries, 3)

	texts := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"mov cx, bx", "db 0x00", "mov al, cl"}, texts)

	data := l.Entries[1]
	assert.Nil(t, data.Inst)
	assert.Equal(t, 2, data.Offset)
	assert.ErrorIs(t, data.Err, decoder.ErrUnrecognizedOpcode)
	assert.Len(t, l.Errors(), 1)
	assert.Len(t, l.Instructions(), 2)
	assert.Equal(t, map[disasm.Form]int{disasm.FormRegMem: 2}, l.Counts())
}

func TestBuildKeepGoingTruncatedTail(t *testing.T) {
	l := Build([]byte{0xb1, 0x0c, 0x8a, 0x80, 0x87}, Options{KeepGoing: true})

	require.NoError(t, l.Err)
	require.Len(t, l.Entries, 4)
	assert.Equal(t, "mov cl, 12", l.Entries[0].Text)
	assert.ErrorIs(t, l.Entries[1].Err, decoder.ErrTruncatedInstruction)
	for _, e := range l.Entries[1:] {
		assert.Nil(t, e.Inst)
	}
}

func TestBuildEmpty(t *testing.T) {
	l := Build(nil, Options{})
	assert.Empty(t, l.Entries)
	assert.NoError(t, l.Err)

	var buf bytes.Buffer
	require.NoError(t, WriteASM(&buf, l, WriteOptions{}))
	assert.Equal(t, "bits 16\n", buf.String())
}

type failFirst struct{}

func (failFirst) Check(src []byte, inst disasm.Instruction) error {
	if inst.Offset == 0 {
		return errors.New("mismatch")
	}
	return nil
}

func TestBuildChecker(t *testing.T) {
	l := Build([]byte{0x89, 0xd9, 0xb1, 0x0c}, Options{Checker: failFirst{}})

	require.Len(t, l.Entries, 2)
	assert.Equal(t, []string{"mismatch"}, l.Entries[0].Annotations)
	assert.Empty(t, l.Entries[1].Annotations)
}

func TestWriteASM(t *testing.T) {
	l := Build([]byte{0x89, 0xd9, 0xb1, 0x0c}, Options{})

	var buf bytes.Buffer
	require.NoError(t, WriteASM(&buf, l, WriteOptions{}))
	assert.Equal(t, "bits 16\nmov cx, bx\nmov cl, 12\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteASM(&buf, l, WriteOptions{Offsets: true, Bytes: true}))
	assert.Equal(t, "bits 16\n0000  89 d9        mov cx, bx\n0002  b1 0c        mov cl, 12\n", buf.String())

	buf.Reset()
	upper := func(s string) string { return "<" + s + ">" }
	require.NoError(t, WriteASM(&buf, l, WriteOptions{Colorize: upper}))
	assert.Equal(t, "bits 16\n<mov cx, bx>\n<mov cl, 12>\n", buf.String())
}

func TestWriteASMAnnotations(t *testing.T) {
	l := Build(badByte, Options{KeepGoing: true})

	var buf bytes.Buffer
	require.NoError(t, WriteASM(&buf, l, WriteOptions{}))
	assert.Contains(t, buf.String(), "db 0x00")
	assert.Contains(t, buf.String(), "; unrecognized opcode 0x00")
}

func TestWriteJSON(t *testing.T) {
	l := Build(badByte, Options{})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, l))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, l.Digest, doc.Digest)
	assert.Equal(t, 5, doc.Size)
	require.Len(t, doc.Instructions, 1)
	assert.Equal(t, DocumentRow{Offset: 0, Bytes: "89 d9", Text: "mov cx, bx", Form: "reg/mem"}, doc.Instructions[0])
	require.NotNil(t, doc.Error)
	assert.Equal(t, 2, doc.Error.Offset)
}

func TestEntryString(t *testing.T) {
	e := Entry{Offset: 0x10, Raw: []byte{0x89, 0xd9}, Text: "mov cx, bx"}
	assert.Equal(t, "0010  89 d9        mov cx, bx", e.String())

	e.Annotations = []string{"note"}
	assert.Contains(t, e.String(), " ; note")
}

func TestSummary(t *testing.T) {
	l := Build(badByte, Options{KeepGoing: true})
	md := Summary("test.bin", l)

	assert.Contains(t, md, "# sim8086")
	assert.Contains(t, md, "; test.bin")
	assert.Contains(t, md, "; 5 bytes, 2 instructions")
	assert.Contains(t, md, "| reg/mem | 2 |")
	assert.Contains(t, md, "## Errors")
}

func TestExplain(t *testing.T) {
	l := Build([]byte{0x8b, 0x56, 0x00, 0xba, 0x6c, 0x0f}, Options{})
	require.Len(t, l.Entries, 2)

	md := Explain(l.Entries[0])
	assert.Contains(t, md, "`mov dx, [bp + 0]`")
	assert.Contains(t, md, "| 0 | 10001011 | opcode 100010, d=1, w=1 |")
	assert.Contains(t, md, "| 1 | 01010110 | mod=01, reg=010, r/m=110 |")
	assert.Contains(t, md, "| 2 | 00000000 | disp |")

	md = Explain(l.Entries[1])
	assert.Contains(t, md, "opcode 1011, w=1, reg=010")
	assert.Contains(t, md, "| 1 | 01101100 | data-lo |")
	assert.Contains(t, md, "| 2 | 00001111 | data-hi |")

	bad := Build([]byte{0x00}, Options{KeepGoing: true})
	md = Explain(bad.Entries[0])
	assert.Contains(t, md, "| 0 | 00000000 | data |")
	assert.Contains(t, md, "> unrecognized opcode")
}
