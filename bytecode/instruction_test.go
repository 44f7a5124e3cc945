package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/opcodes"
)

func encode(op opcodes.Opcode, words ...uint32) []uint32 {
	return append([]uint32{uint32(op)}, words...)
}

func TestIterator_WalksMultipleInstructions(t *testing.T) {
	code := []uint32{
		uint32(opcodes.OP_SetV4), 0, 5,
		uint32(opcodes.OP_RET), 0,
		uint32(opcodes.OP_POP),
	}

	it := NewIterator(code)

	ins, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, opcodes.OP_SetV4, ins.Op)
	assert.Equal(t, 0, ins.Offset)
	assert.EqualValues(t, 0, ins.Arg16S(1, 0))
	assert.EqualValues(t, 5, ins.Arg32U(2))

	ins, ok = it.Next()
	assert.True(t, ok)
	assert.Equal(t, opcodes.OP_RET, ins.Op)
	assert.Equal(t, 12, ins.Offset)

	ins, ok = it.Next()
	assert.True(t, ok)
	assert.Equal(t, opcodes.OP_POP, ins.Op)

	_, ok = it.Next()
	assert.False(t, ok)
	assert.True(t, it.End())
}

func TestSetArgPtr_RoundTripsAndNeverTouchesOpcodeWord(t *testing.T) {
	code := encode(opcodes.OP_JitEntry, 0, 0)
	it := NewIterator(code)
	ins, ok := it.Next()
	assert.True(t, ok)

	ins.SetArgPtr(1, 0xdeadbeefcafe)
	assert.Equal(t, uint32(opcodes.OP_JitEntry), code[0], "opcode word must survive a SetArgPtr(1, ...) write")
	assert.EqualValues(t, 0xdeadbeefcafe, ins.ArgPtr(1))
}

func TestArg64_LittleEndianWordPair(t *testing.T) {
	code := encode(opcodes.OP_PshC8, 0x00000001, 0x00000002)
	ins, ok := InstructionAt(code, 0)
	assert.True(t, ok)
	assert.EqualValues(t, 0x0000000200000001, ins.Arg64U(1))
}

func TestByteOffsetToWord(t *testing.T) {
	assert.Equal(t, 3, ByteOffsetToWord(12))
}

func TestEncodeWords_RoundTripsThroughBinary(t *testing.T) {
	words := []Word{1, 2, 3}
	buf := EncodeWords(words)
	assert.Len(t, buf, 12)
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(2), buf[4])
}
