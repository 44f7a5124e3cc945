package ccompiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecCompiler_CCDefaultsToSystemCC(t *testing.T) {
	c := &ExecCompiler{}
	assert.Equal(t, "cc", c.cc())

	c.CC = "clang"
	assert.Equal(t, "clang", c.cc())
}

func TestNewExecCompiler_Defaults(t *testing.T) {
	c := NewExecCompiler()
	assert.Equal(t, "cc", c.CC)
	assert.False(t, c.KeepArtifacts)
}

type fakeModule struct {
	symbols map[string]uintptr
	closed  bool
}

func (m *fakeModule) Symbol(name string) (uintptr, bool) {
	addr, ok := m.symbols[name]
	return addr, ok
}

func (m *fakeModule) Close() error {
	m.closed = true
	return nil
}

func TestRegisterEntryPoint_UnknownSymbolIsAnError(t *testing.T) {
	mod := &fakeModule{symbols: map[string]uintptr{}}
	var fn func()
	err := RegisterEntryPoint(mod, "missing_symbol", &fn)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing_symbol")
}
