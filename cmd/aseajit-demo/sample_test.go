package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/bytecode"
)

func TestBuildSample_DecodesCleanlyToFiveInstructions(t *testing.T) {
	code := buildSample()

	it := bytecode.NewIterator(code)
	var ops []string
	for !it.End() {
		ins, ok := it.Next()
		assert.True(t, ok)
		ops = append(ops, ins.Op.String())
	}

	assert.Equal(t, []string{"JitEntry", "SetV4", "SetV4", "ADDi", "RET"}, ops)
}
