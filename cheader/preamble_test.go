package cheader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/runtimeabi"
)

func TestRender_ContainsEveryRuntimeABIPrototype(t *testing.T) {
	out := Render()
	for _, sym := range runtimeabi.AllSymbols {
		assert.Contains(t, out, sym, "expected a prototype for %s", sym)
	}
}

func TestRender_IsWellFormedAroundTheSupportGate(t *testing.T) {
	out := Render()
	assert.True(t, strings.HasPrefix(out, "#ifdef ASEA_SUPPORT"))
	assert.True(t, strings.HasSuffix(out, "#endif /* ASEA_SUPPORT */\n"))
}

func TestRender_IsDeterministic(t *testing.T) {
	assert.Equal(t, Render(), Render())
}

func TestPrototype_UnknownSymbolDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		out := prototype("not_a_real_symbol")
		assert.Contains(t, out, "unknown runtime ABI symbol")
	})
}
