package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sim8086/internal/decoder"
)

func TestCheckAgrees(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"reg to reg", []byte{0x89, 0xd9}},
		{"mem no disp", []byte{0x8a, 0x00}},
		{"mem disp8", []byte{0x8b, 0x56, 0x00}},
		{"mem disp16", []byte{0x8a, 0x80, 0x87, 0x13}},
		{"imm8", []byte{0xb1, 0x0c}},
		{"imm16", []byte{0xba, 0x6c, 0x0f}},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insts, err := decoder.Decode(tt.data)
			require.NoError(t, err)
			require.Len(t, insts, 1)
			assert.NoError(t, c.Check(tt.data, insts[0]))
		})
	}
}

func TestCheckDirectAddress(t *testing.T) {
	data := []byte{0x8b, 0x06, 0x34, 0x12}
	c := New()

	d := decoder.New(data)
	inst, err := d.Next()
	require.NoError(t, err)

	err = c.Check(data, inst)
	var me *MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 0, me.Offset)
	assert.Equal(t, 2, me.Ours)
	assert.Equal(t, 4, me.Theirs)
	assert.Equal(t, "mov", me.Op)

	d = decoder.New(data, decoder.WithDirectAddress())
	inst, err = d.Next()
	require.NoError(t, err)
	assert.NoError(t, c.Check(data, inst))
}

func TestSyntax(t *testing.T) {
	s, err := New().Syntax([]byte{0x89, 0xd9}, 0)
	require.NoError(t, err)
	assert.Contains(t, s, "mov")
}
