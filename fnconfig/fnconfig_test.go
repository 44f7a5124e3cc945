package fnconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_RecognizedTags(t *testing.T) {
	cfg := Parse("ignore_perf_warnings, disable_jit")
	assert.True(t, cfg.IgnorePerfWarnings)
	assert.True(t, cfg.DisableJIT)
	assert.False(t, cfg.DumpC)
}

func TestParse_UnknownTagsAreIgnored(t *testing.T) {
	cfg := Parse("dump_c,made_up_tag,")
	assert.True(t, cfg.DumpC)
	assert.False(t, cfg.DisableJIT)
}

func TestParse_EmptyStringYieldsZeroValue(t *testing.T) {
	assert.Equal(t, Config{}, Parse(""))
}

func TestResolve_NilCallbackYieldsZeroValue(t *testing.T) {
	assert.Equal(t, Config{}, Resolve(nil, 7))
}

func TestResolve_DelegatesToCallback(t *testing.T) {
	cb := func(fnID uint32) string {
		assert.EqualValues(t, 42, fnID)
		return "disable_jit"
	}
	cfg := Resolve(cb, 42)
	assert.True(t, cfg.DisableJIT)
}
