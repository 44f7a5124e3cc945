package lazy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	assert.EqualValues(t, 10, cfg.HitsBeforeFuncCompile)
	assert.Equal(t, 1000, cfg.MaxCompiledFunctions)
	assert.InDelta(t, 0.33, cfg.PerfWarningFallbackRatio, 0.001)
	assert.False(t, cfg.Eager)
}
