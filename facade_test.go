package aseajit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/engine"
	"github.com/wudi/aseajit/lazy"
)

type fakeFn struct {
	id   uint32
	name string
	jit  engine.JitEntryFunc
}

func (f *fakeFn) ID() uint32                            { return f.id }
func (f *fakeFn) ByteCode() []uint32                     { return []uint32{} }
func (f *fakeFn) DeclaredAt() engine.Location            { return engine.Location{} }
func (f *fakeFn) Declaration() string                    { return f.name + "()" }
func (f *fakeFn) Name() string                           { return f.name }
func (f *fakeFn) Module() engine.Module                  { return nil }
func (f *fakeFn) SetJITFunction(fn engine.JitEntryFunc)   { f.jit = fn }

func TestNew_FillsInDefaultsForZeroOptions(t *testing.T) {
	f := New(Options{LazyConfig: lazy.Config{HitsBeforeFuncCompile: 1_000_000}})
	assert.NotNil(t, f)
	assert.NotNil(t, f.controller)
}

func TestNewFunction_InstallsATrampoline(t *testing.T) {
	f := New(Options{LazyConfig: lazy.Config{HitsBeforeFuncCompile: 1_000_000}})
	fn := &fakeFn{id: 1, name: "demo"}

	f.NewFunction(fn)

	assert.NotNil(t, fn.jit)
	assert.Len(t, f.Stats(), 1)
}

func TestCleanFunction_RemovesBookkeeping(t *testing.T) {
	f := New(Options{LazyConfig: lazy.Config{HitsBeforeFuncCompile: 1_000_000}})
	fn := &fakeFn{id: 1, name: "demo"}
	f.NewFunction(fn)
	assert.Len(t, f.Stats(), 1)

	f.CleanFunction(fn, fn.jit)
	assert.Len(t, f.Stats(), 0)
}

func TestDiscoverFunctionConfig_ReflectsInstalledCallback(t *testing.T) {
	f := New(Options{})
	f.SetFunctionConfigRequestCallback(func(fnID uint32) string { return "dump_c" })

	cfg := f.DiscoverFunctionConfig(&fakeFn{id: 9, name: "x"})
	assert.True(t, cfg.DumpC)
}

var _ engine.JITCompilerV2 = (*Facade)(nil)
