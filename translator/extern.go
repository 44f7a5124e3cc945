package translator

import "fmt"

// ExternKind classifies a symbol the generated C references but does not
// define.
type ExternKind int

const (
	ExternRuntimeHelper ExternKind = iota
	ExternScriptFunction
	ExternGlobalVariable
	ExternStringConstant
)

func (k ExternKind) String() string {
	switch k {
	case ExternRuntimeHelper:
		return "runtime-helper"
	case ExternScriptFunction:
		return "script-function"
	case ExternGlobalVariable:
		return "global-variable"
	case ExternStringConstant:
		return "string-constant"
	default:
		return "unknown"
	}
}

// ExternRef is one entry of the extern mapping: a C name, its kind, and
// the host address the linker should bind it to.
type ExternRef struct {
	Name string
	Kind ExternKind
	Addr uintptr
}

// FunctionAddressResolver supplies the host address backing
// `asea_script_fn<id>` externs. A script-function extern's address is
// whatever handle the host engine uses to identify the callee function
// object — the CALL stencil only ever passes it opaquely to
// asea_call_script_function, never dereferences it itself.
type FunctionAddressResolver interface {
	ResolveScriptFunctionAddress(id uint32) (uintptr, bool)
}

// scriptFunctionExternName returns the C identifier for a script-function extern, the
// `asea_script_fn<id>` scheme.
func scriptFunctionExternName(id uint32) string {
	return fmt.Sprintf("asea_script_fn%d", id)
}

// globalExternName returns the C identifier for a global-property
// extern, the `asea_global<id>` scheme, where id is the stable
// sequence number this translator assigned the address the first time
// it saw it (see Translator.globalIDs).
func globalExternName(id int) string {
	return fmt.Sprintf("asea_global%d", id)
}

// stringConstExternName returns the C identifier for a string-constant
// extern, the `asea_strobj<n>_<fn>` scheme: n is a per-function
// sequence number, fn is the owning function's id.
func stringConstExternName(seq int, fnID uint32) string {
	return fmt.Sprintf("asea_strobj%d_%d", seq, fnID)
}
