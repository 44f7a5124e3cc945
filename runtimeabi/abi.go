// Package runtimeabi defines the fixed, named contract between generated
// C and this process. Every symbol name here is part of the
// stable ABI: stencils in package translator emit these names literally,
// so renaming anything in this file is a breaking change to every
// already-compiled .so this process has produced.
package runtimeabi

// Symbol names the translator emits as `extern` declarations and calls
// by name. Kept as named constants, not string literals, so translator
// and the linker step in ccompiler can never drift apart.
const (
	SymCallScriptFunction       = "asea_call_script_function"
	SymCallSystemFunction       = "asea_call_system_function"
	SymCallObjectMethod         = "asea_call_object_method"
	SymPrepareScriptStack       = "asea_prepare_script_stack"
	SymPrepareScriptStackAndVars = "asea_prepare_script_stack_and_vars"
	SymCleanArgs                = "asea_clean_args"
	SymCast                     = "asea_cast"
	SymNewScriptObject          = "asea_new_script_object"
	SymAlloc                    = "asea_alloc"
	SymFree                     = "asea_free"
	SymSetInternalException     = "asea_set_internal_exception"
	SymDebugMessage             = "asea_debug_message"
	SymDebugInt                 = "asea_debug_int"
)

// AllSymbols lists every runtime-ABI entry point, in the order the
// preamble (package cheader) declares their prototypes.
var AllSymbols = []string{
	SymCallScriptFunction,
	SymCallSystemFunction,
	SymCallObjectMethod,
	SymPrepareScriptStack,
	SymPrepareScriptStackAndVars,
	SymCleanArgs,
	SymCast,
	SymNewScriptObject,
	SymAlloc,
	SymFree,
	SymSetInternalException,
	SymDebugMessage,
	SymDebugInt,
}

// Offsets gives the byte offsets of private fields within engine
// structures. The host engine is the only party that can compute these —
// they depend on its own struct layout — so this module never guesses at
// them; a host supplies them through an OffsetProvider. No stencil in
// package translator reads them.
type Offsets struct {
	ContextCallStack       uintptr
	ContextStatus          uintptr
	ContextCurrentFunction uintptr
	ContextStackIndex      uintptr
	ContextEngine          uintptr

	ScriptFunctionScriptData  uintptr
	ScriptFunctionJITFunction uintptr

	ScriptObjectObjectType uintptr
	ObjectTypeVTable       uintptr
}

// OffsetProvider is implemented by the host engine adapter to supply the
// Offsets above. A test double (see runtimeabi_test.go) supplies
// plausible fixed values; a real engine binding would compute these once
// at startup with its own struct layout.
type OffsetProvider interface {
	Offsets() Offsets
}

// FixedOffsetProvider is the trivial OffsetProvider: a value already
// computed elsewhere. Used by tests.
type FixedOffsetProvider Offsets

func (f FixedOffsetProvider) Offsets() Offsets { return Offsets(f) }
