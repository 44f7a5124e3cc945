package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/bytecode"
	"github.com/wudi/aseajit/opcodes"
)

type fakeLookup map[uint32]struct {
	name, decl string
}

func (f fakeLookup) LookupFunction(id uint32) (string, string, bool) {
	e, ok := f[id]
	return e.name, e.decl, ok
}

func TestDisassemble_NoArgOpcode(t *testing.T) {
	ins, ok := bytecode.InstructionAt([]uint32{uint32(opcodes.OP_POP)}, 0)
	assert.True(t, ok)
	assert.Equal(t, "POP", Disassemble(ins, nil))
}

func TestDisassemble_WordWord32(t *testing.T) {
	code := []uint32{uint32(opcodes.OP_SetV4), 0, 42}
	ins, ok := bytecode.InstructionAt(code, 0)
	assert.True(t, ok)
	got := Disassemble(ins, nil)
	assert.Contains(t, got, "SetV4")
	assert.Contains(t, got, "0, 42")
}

func TestDisassemble_CallFamilyResolvesFunctionName(t *testing.T) {
	code := []uint32{uint32(opcodes.OP_CALL), 5}
	ins, ok := bytecode.InstructionAt(code, 0)
	assert.True(t, ok)

	lookup := fakeLookup{5: {name: "doThing", decl: "void doThing()"}}
	got := Disassemble(ins, lookup)
	assert.Contains(t, got, "doThing")
}

func TestDisassemble_CallFamilyUnknownFunctionFallsBackToID(t *testing.T) {
	code := []uint32{uint32(opcodes.OP_CALL), 99}
	ins, ok := bytecode.InstructionAt(code, 0)
	assert.True(t, ok)

	got := Disassemble(ins, nil)
	assert.Contains(t, got, "99")
}

func TestDisassemble_Arg64(t *testing.T) {
	code := []uint32{uint32(opcodes.OP_PshC8), 1, 0}
	ins, ok := bytecode.InstructionAt(code, 0)
	assert.True(t, ok)
	assert.Contains(t, Disassemble(ins, nil), "1")
}
