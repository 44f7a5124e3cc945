package opcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeWords_KnownOpcodes(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
		want int
	}{
		{"POP is tag-only", OP_POP, 1},
		{"PshC4 carries one 32-bit word", OP_PshC4, 2},
		{"PshC8 carries one 64-bit word", OP_PshC8, 3},
		{"JitEntry carries a pointer-sized immediate", OP_JitEntry, 1 + ptrWords},
		{"SetV4 carries a frame offset and a 32-bit literal", OP_SetV4, 3},
		{"SetV8 carries a frame offset and a 64-bit literal", OP_SetV8, 4},
		{"ADDi carries three frame offsets", OP_ADDi, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.SizeWords())
		})
	}
}

func TestSizeWords_UnknownOpcodeDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, Opcode(255).SizeWords())
}

func TestString_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "JitEntry", OP_JitEntry.String())
	assert.Equal(t, "ADDi64", OP_ADDi64.String())
	assert.Contains(t, Opcode(255).String(), "OP(")
}

func TestIsCallFamily(t *testing.T) {
	assert.True(t, OP_CALL.IsCallFamily())
	assert.True(t, OP_CALLOBJMETHOD.IsCallFamily())
	assert.False(t, OP_ADDi.IsCallFamily())
	assert.False(t, OP_RET.IsCallFamily())
}

func TestLookup_OutOfRange(t *testing.T) {
	_, ok := Lookup(Opcode(255))
	assert.False(t, ok)

	info, ok := Lookup(OP_JMP)
	assert.True(t, ok)
	assert.Equal(t, "JMP", info.Name)
	assert.Equal(t, Arg32, info.Class)
}
