package main

import (
	"fmt"
	"sync"

	"github.com/wudi/aseajit/engine"
)

// fakeModule is the only engine.Module this demo ever constructs.
type fakeModule struct{ name string }

func (m *fakeModule) Name() string { return m.name }

// fakeFunction is a minimal engine.ScriptFunction backed by an in-memory
// bytecode slice, standing in for whatever the real host engine's
// function object looks like.
type fakeFunction struct {
	id      uint32
	name    string
	decl    string
	module  *fakeModule
	code    []uint32
	loc     engine.Location

	mu     sync.Mutex
	jitFn  engine.JitEntryFunc
	native bool
}

func (f *fakeFunction) ID() uint32              { return f.id }
func (f *fakeFunction) ByteCode() []uint32       { return f.code }
func (f *fakeFunction) DeclaredAt() engine.Location { return f.loc }
func (f *fakeFunction) Declaration() string      { return f.decl }
func (f *fakeFunction) Name() string             { return f.name }
func (f *fakeFunction) Module() engine.Module {
	if f.module == nil {
		return nil
	}
	return f.module
}

func (f *fakeFunction) SetJITFunction(fn engine.JitEntryFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jitFn = fn
	f.native = fn != nil
}

// hasNative reports whether a compiled entry point has been attached,
// for the demo's status output.
func (f *fakeFunction) hasNative() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.native
}

// fakeMessageWriter prints every engine diagnostic to stdout, the
// demo's stand-in for the host engine's message callback.
type fakeMessageWriter struct{}

func (fakeMessageWriter) WriteMessage(loc engine.Location, severity engine.MessageType, text string) {
	if loc.Section != "" {
		fmt.Printf("[%s] %s %s: %s\n", severity, loc.Section, loc.String(), text)
		return
	}
	fmt.Printf("[%s] %s\n", severity, text)
}

// fakeGlobals resolves no addresses at all — the sample program never
// references a global, so an empty resolver is sufficient.
type fakeGlobals struct{}

func (fakeGlobals) LookupGlobalByAddress(addr uintptr) (engine.GlobalProperty, bool) {
	return engine.GlobalProperty{}, false
}

// fakeFuncAddr resolves every callee id to a made-up, non-zero handle,
// so the translator has a FunctionAddressResolver to hold. The sample
// program contains no CALL, and the CALL stencil falls back without
// looking a callee up.
type fakeFuncAddr struct{}

func (fakeFuncAddr) ResolveScriptFunctionAddress(id uint32) (uintptr, bool) {
	return uintptr(0x1000 + id), true
}
