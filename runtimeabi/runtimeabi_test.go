package runtimeabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/engine"
)

type recordingHelpers struct {
	NoopHelpers
	lastText string
	lastInt  int64
}

func (r *recordingHelpers) DebugMessage(regs *engine.VMRegisters, text string) { r.lastText = text }
func (r *recordingHelpers) DebugInt(regs *engine.VMRegisters, x int64)         { r.lastInt = x }

func TestBind_RegistersEveryKnownSymbol(t *testing.T) {
	b := Bind(NoopHelpers{})
	for _, sym := range AllSymbols {
		addr, ok := b[sym]
		assert.True(t, ok, "expected %s to be bound", sym)
		assert.NotZero(t, addr, "expected %s to resolve to a non-null pointer", sym)
	}
}

func TestFixedOffsetProvider_ReturnsWhatItWasGiven(t *testing.T) {
	o := Offsets{ContextStatus: 16, ScriptFunctionJITFunction: 32}
	p := FixedOffsetProvider(o)
	assert.Equal(t, o, p.Offsets())
}

func TestNoopHelpers_SatisfiesInterfaceWithoutPanicking(t *testing.T) {
	var h Helpers = NoopHelpers{}
	assert.NotPanics(t, func() {
		h.Alloc(8)
		h.Free(0)
		h.CallScriptFunction(nil, 1)
		_ = h.CallSystemFunction(nil, 1)
	})
}
