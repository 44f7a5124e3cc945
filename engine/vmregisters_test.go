package engine

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestProgramWord_ComputesWordIndexFromBase(t *testing.T) {
	code := make([]uint32, 8)
	base := unsafe.Pointer(&code[0])
	regs := VMRegisters{ProgramPointer: unsafe.Pointer(&code[3])}

	assert.Equal(t, 3, regs.ProgramWord(base))
}
