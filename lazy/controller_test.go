package lazy

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/engine"
	"github.com/wudi/aseajit/logging"
	"github.com/wudi/aseajit/opcodes"
	"github.com/wudi/aseajit/runtimeabi"
	"github.com/wudi/aseajit/translator"
)

func newTestController(cfg Config) *Controller {
	tr := translator.New(translator.Config{}, nil, nil)
	return New(cfg, tr, nil, runtimeabi.Bind(runtimeabi.NoopHelpers{}), logging.New(nil, "lazy_test"))
}

func TestRegister_InstallsTrampolineByDefault(t *testing.T) {
	c := newTestController(Config{HitsBeforeFuncCompile: 1_000_000})
	fn := &fakeFn{id: 1, name: "f"}

	c.Register(fn)

	assert.NotNil(t, fn.jit)
}

func TestRegister_DisableJITSkipsTrampoline(t *testing.T) {
	c := newTestController(Config{HitsBeforeFuncCompile: 1_000_000})
	c.SetFunctionConfigRequestCallback(func(fnID uint32) string { return "disable_jit" })
	fn := &fakeFn{id: 1, name: "f"}

	c.Register(fn)

	assert.Nil(t, fn.jit)
}

func TestTrampoline_AdvancesProgramPointerPastJitEntry(t *testing.T) {
	c := newTestController(Config{HitsBeforeFuncCompile: 1_000_000})
	fn := &fakeFn{id: 1, name: "f"}
	c.Register(fn)
	assert.NotNil(t, fn.jit)

	code := make([]uint32, 8)
	regs := &engine.VMRegisters{ProgramPointer: unsafe.Pointer(&code[0])}

	fn.jit(regs, 0)

	wantAdvance := uintptr(opcodes.OP_JitEntry.SizeWords() * 4)
	assert.Equal(t, unsafe.Add(unsafe.Pointer(&code[0]), wantAdvance), regs.ProgramPointer)
}

func TestTrampoline_CountsHitsWithoutTriggeringCompileBelowThreshold(t *testing.T) {
	c := newTestController(Config{HitsBeforeFuncCompile: 1_000_000})
	fn := &fakeFn{id: 1, name: "f"}
	c.Register(fn)

	code := make([]uint32, 8)
	regs := &engine.VMRegisters{ProgramPointer: unsafe.Pointer(&code[0])}

	fn.jit(regs, 0)
	fn.jit(regs, 0)
	fn.jit(regs, 0)

	stats := c.Stats()
	assert.Len(t, stats, 1)
	assert.EqualValues(t, 3, stats[0].Hits)
	assert.False(t, stats[0].Compiled)
}

func TestDeregister_RemovesBookkeeping(t *testing.T) {
	c := newTestController(Config{})
	fn := &fakeFn{id: 1, name: "f"}
	c.Register(fn)
	assert.Len(t, c.Stats(), 1)

	c.Deregister(fn)
	assert.Len(t, c.Stats(), 0)
}

func TestTopHotspots_OrdersByHitsDescending(t *testing.T) {
	c := newTestController(Config{HitsBeforeFuncCompile: 1_000_000})
	a := &fakeFn{id: 1, name: "a"}
	b := &fakeFn{id: 2, name: "b"}
	c.Register(a)
	c.Register(b)

	code := make([]uint32, 8)
	regs := &engine.VMRegisters{ProgramPointer: unsafe.Pointer(&code[0])}
	a.jit(regs, 0)

	top := c.TopHotspots(2)
	assert.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Name)
	assert.EqualValues(t, 1, top[0].Hits)
	assert.EqualValues(t, 0, top[1].Hits)
}
