package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/engine"
	"github.com/wudi/aseajit/opcodes"
)

type fakeModule struct{ name string }

func (m fakeModule) Name() string { return m.name }

type fakeFn struct {
	id     uint32
	name   string
	module engine.Module
	code   []uint32
}

func (f *fakeFn) ID() uint32                  { return f.id }
func (f *fakeFn) ByteCode() []uint32          { return f.code }
func (f *fakeFn) DeclaredAt() engine.Location { return engine.Location{} }
func (f *fakeFn) Declaration() string         { return f.name + "()" }
func (f *fakeFn) Name() string                { return f.name }
func (f *fakeFn) Module() engine.Module       { return f.module }
func (f *fakeFn) SetJITFunction(engine.JitEntryFunc) {}

func sampleCode() []uint32 {
	return []uint32{
		uint32(opcodes.OP_JitEntry), 0, 0,
		uint32(opcodes.OP_SetV4), 0, 5,
		uint32(opcodes.OP_SetV4), 4, 7,
		uint32(opcodes.OP_ADDi), 0, 0, 4,
		uint32(opcodes.OP_RET), 0,
	}
}

func TestMangle_UsesFunctionIDAndModuleName(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 3, name: "f", module: fakeModule{name: "mymodule"}}
	assert.Equal(t, "asea_3_module_mymodule", tr.Mangle(fn))
}

func TestMangle_AnonymousModuleFallsBackToAnon(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 3, name: "f", module: nil}
	assert.Equal(t, "asea_3_module_anon", tr.Mangle(fn))
}

func TestMangle_EscapesNonAlphanumericModuleNames(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 1, name: "f", module: fakeModule{name: "a.b"}}
	assert.Equal(t, "asea_1_module_a_2e_b", tr.Mangle(fn))
}

func TestTranslate_ProducesCompilableLookingOutput(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 1, name: "add_demo", code: sampleCode()}

	out, err := tr.Translate(fn, false)
	assert.NoError(t, err)
	assert.Equal(t, "asea_1_module_anon", out.MangledName)
	assert.Contains(t, out.Source, "void asea_1_module_anon(asea_vm_registers* _regs, asPWORD entry_label)")
	assert.Contains(t, out.Source, "switch (entry_label)")
	assert.Contains(t, out.Source, "bc0:")
}

func TestTranslate_RejectsDuplicateCompileOfSameFunction(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 2, name: "f", code: sampleCode()}

	_, err := tr.Translate(fn, false)
	assert.NoError(t, err)

	_, err = tr.Translate(fn, false)
	assert.Error(t, err)
}

func TestTranslate_UnsupportedOpcodeFallsBackAndCountsIt(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 1, name: "f", code: []uint32{
		uint32(opcodes.OP_CALL), 5,
	}}

	out, err := tr.Translate(fn, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, out.FallbackCount)
	assert.Contains(t, out.Source, "return;")
}

func TestTranslate_BlacklistedInstructionAlwaysFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlacklistInstructions[opcodes.OP_ADDi] = true
	tr := New(cfg, nil, nil)
	fn := &fakeFn{id: 1, name: "f", code: sampleCode()}

	out, err := tr.Translate(fn, false)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, out.FallbackCount, 1)
}

func TestTranslate_TraceFunctionsEmitsDebugCall(t *testing.T) {
	tr := New(DefaultConfig(), nil, nil)
	fn := &fakeFn{id: 1, name: "f", code: sampleCode()}

	out, err := tr.Translate(fn, true)
	assert.NoError(t, err)
	assert.Contains(t, out.Source, "asea_debug_message(regs, \"enter asea_1_module_anon\")")
}

func TestTranslate_IsIdempotentAcrossIndependentTranslators(t *testing.T) {
	fn1 := &fakeFn{id: 1, name: "f", code: sampleCode()}
	fn2 := &fakeFn{id: 1, name: "f", code: sampleCode()}

	out1, err := New(DefaultConfig(), nil, nil).Translate(fn1, false)
	assert.NoError(t, err)
	out2, err := New(DefaultConfig(), nil, nil).Translate(fn2, false)
	assert.NoError(t, err)

	assert.Equal(t, out1.Source, out2.Source)
}
