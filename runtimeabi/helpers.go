package runtimeabi

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/wudi/aseajit/engine"
)

// Helpers is the Go-side implementation of the runtime ABI.
// Generated C never calls into Go directly — it calls a C-callable
// trampoline purego builds around each method — but this interface is
// where the actual behavior lives, and it is what a host engine binding
// implements against its real data structures.
type Helpers interface {
	// CallScriptFunction initiates a script-to-script call; the caller
	// must return to the engine immediately after this.
	CallScriptFunction(regs *engine.VMRegisters, fn uint32)
	// CallSystemFunction calls a native function through the engine's
	// generic dispatcher, returning the number of stack words the
	// caller must pop.
	CallSystemFunction(regs *engine.VMRegisters, fnID uint32) int32
	// CallObjectMethod calls a native method on a specific object.
	CallObjectMethod(regs *engine.VMRegisters, obj uintptr, fnID uint32)
	// PrepareScriptStack sets up a callee frame.
	PrepareScriptStack(regs *engine.VMRegisters, fn uint32, pc, sp, fp uintptr) int32
	// PrepareScriptStackAndVars additionally reserves and
	// zero-initializes locals.
	PrepareScriptStackAndVars(regs *engine.VMRegisters, fn uint32, pc, sp, fp uintptr) int32
	// CleanArgs releases references / destructs values in an argument
	// list.
	CleanArgs(regs *engine.VMRegisters, fn uint32, args uintptr)
	// Cast performs a runtime polymorphic downcast into the object
	// register.
	Cast(regs *engine.VMRegisters, obj uintptr, typeID uint32)
	// NewScriptObject allocates and constructs a script object.
	NewScriptObject(typeID uint32) uintptr
	// Alloc / Free are heap allocation primitives generated code uses
	// for temporaries it owns outside the VM stack.
	Alloc(size uint64) uintptr
	Free(ptr uintptr)
	// SetInternalException raises a script exception.
	SetInternalException(regs *engine.VMRegisters, text string)
	// DebugMessage / DebugInt back `debug.trace_functions` and ad hoc
	// stencil-level tracing.
	DebugMessage(regs *engine.VMRegisters, text string)
	DebugInt(regs *engine.VMRegisters, x int64)
}

// Binding is a set of C-callable function pointers, one per ABI symbol,
// ready to hand to the C compiler's linker.
type Binding map[string]uintptr

// Bind wraps each method of h as a cdecl-callable pointer via
// purego.NewCallback and returns the resulting symbol table. purego
// builds the calling-convention trampoline; this function only owns the
// naming contract.
//
// Go function values passed to NewCallback must not be garbage collected
// while native code may still call them, so Bind retains h for the
// lifetime of the returned Binding's use — callers keep h alive by
// holding onto the Binding (or h itself) for as long as any compiled
// function referencing it can run.
func Bind(h Helpers) Binding {
	b := make(Binding, len(AllSymbols))
	b[SymCallScriptFunction] = purego.NewCallback(func(regs *engine.VMRegisters, fn uint32) {
		h.CallScriptFunction(regs, fn)
	})
	b[SymCallSystemFunction] = purego.NewCallback(func(regs *engine.VMRegisters, fnID uint32) int32 {
		return h.CallSystemFunction(regs, fnID)
	})
	b[SymCallObjectMethod] = purego.NewCallback(func(regs *engine.VMRegisters, obj uintptr, fnID uint32) {
		h.CallObjectMethod(regs, obj, fnID)
	})
	b[SymPrepareScriptStack] = purego.NewCallback(func(regs *engine.VMRegisters, fn uint32, pc, sp, fp uintptr) int32 {
		return h.PrepareScriptStack(regs, fn, pc, sp, fp)
	})
	b[SymPrepareScriptStackAndVars] = purego.NewCallback(func(regs *engine.VMRegisters, fn uint32, pc, sp, fp uintptr) int32 {
		return h.PrepareScriptStackAndVars(regs, fn, pc, sp, fp)
	})
	b[SymCleanArgs] = purego.NewCallback(func(regs *engine.VMRegisters, fn uint32, args uintptr) {
		h.CleanArgs(regs, fn, args)
	})
	b[SymCast] = purego.NewCallback(func(regs *engine.VMRegisters, obj uintptr, typeID uint32) {
		h.Cast(regs, obj, typeID)
	})
	b[SymNewScriptObject] = purego.NewCallback(func(typeID uint32) uintptr {
		return h.NewScriptObject(typeID)
	})
	b[SymAlloc] = purego.NewCallback(func(size uint64) uintptr {
		return h.Alloc(size)
	})
	b[SymFree] = purego.NewCallback(func(ptr uintptr) {
		h.Free(ptr)
	})
	b[SymSetInternalException] = purego.NewCallback(func(regs *engine.VMRegisters, text *byte) {
		h.SetInternalException(regs, goString(text))
	})
	b[SymDebugMessage] = purego.NewCallback(func(regs *engine.VMRegisters, text *byte) {
		h.DebugMessage(regs, goString(text))
	})
	b[SymDebugInt] = purego.NewCallback(func(regs *engine.VMRegisters, x int64) {
		h.DebugInt(regs, x)
	})
	return b
}

// goString converts a NUL-terminated C string pointer into a Go string.
// Generated C always passes string literals or buffers it owns, so this
// never outlives the call.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	s := make([]byte, n)
	for i := 0; i < n; i++ {
		s[i] = *(*byte)(unsafe.Add(unsafe.Pointer(p), i))
	}
	return string(s)
}

// NoopHelpers is a Helpers implementation that logs every call instead
// of touching real VM state. It is the default used by tests and the
// demo CLI in place of a real script engine.
type NoopHelpers struct {
	Log func(format string, args ...any)
}

func (n NoopHelpers) logf(format string, args ...any) {
	if n.Log != nil {
		n.Log(format, args...)
	}
}

func (n NoopHelpers) CallScriptFunction(regs *engine.VMRegisters, fn uint32) {
	n.logf("call_script_function fn=%d", fn)
}
func (n NoopHelpers) CallSystemFunction(regs *engine.VMRegisters, fnID uint32) int32 {
	n.logf("call_system_function fn=%d", fnID)
	return 0
}
func (n NoopHelpers) CallObjectMethod(regs *engine.VMRegisters, obj uintptr, fnID uint32) {
	n.logf("call_object_method obj=%#x fn=%d", obj, fnID)
}
func (n NoopHelpers) PrepareScriptStack(regs *engine.VMRegisters, fn uint32, pc, sp, fp uintptr) int32 {
	n.logf("prepare_script_stack fn=%d", fn)
	return 0
}
func (n NoopHelpers) PrepareScriptStackAndVars(regs *engine.VMRegisters, fn uint32, pc, sp, fp uintptr) int32 {
	n.logf("prepare_script_stack_and_vars fn=%d", fn)
	return 0
}
func (n NoopHelpers) CleanArgs(regs *engine.VMRegisters, fn uint32, args uintptr) {
	n.logf("clean_args fn=%d", fn)
}
func (n NoopHelpers) Cast(regs *engine.VMRegisters, obj uintptr, typeID uint32) {
	n.logf("cast obj=%#x type=%d", obj, typeID)
}
func (n NoopHelpers) NewScriptObject(typeID uint32) uintptr {
	n.logf("new_script_object type=%d", typeID)
	return 0
}
func (n NoopHelpers) Alloc(size uint64) uintptr {
	n.logf("alloc size=%d", size)
	return 0
}
func (n NoopHelpers) Free(ptr uintptr) {
	n.logf("free ptr=%#x", ptr)
}
func (n NoopHelpers) SetInternalException(regs *engine.VMRegisters, text string) {
	n.logf("set_internal_exception %q", text)
}
func (n NoopHelpers) DebugMessage(regs *engine.VMRegisters, text string) {
	n.logf("debug: %s", text)
}
func (n NoopHelpers) DebugInt(regs *engine.VMRegisters, x int64) {
	n.logf("debug: %d", x)
}

var _ Helpers = NoopHelpers{}
