// Package engine defines the boundary between this JIT backend and the
// host script engine it plugs into. Everything here is an
// interface or a plain value type the host implements or fills in; this
// module never constructs a production engine itself, only fakes for
// tests and the demo CLI.
package engine

import "fmt"

// MessageType mirrors the host engine's three diagnostic severities.
type MessageType int

const (
	MsgError MessageType = iota
	MsgWarning
	MsgInformation
)

func (m MessageType) String() string {
	switch m {
	case MsgError:
		return "ERROR"
	case MsgWarning:
		return "WARN"
	case MsgInformation:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Location is a source position as the engine reports it: section name
// (file/module), 1-based row and column. The zero value is "no location".
type Location struct {
	Section string
	Row     int
	Col     int
}

// MessageWriter is the engine's WriteMessage callback.
type MessageWriter interface {
	WriteMessage(loc Location, severity MessageType, text string)
}

// JitEntryFunc is the native signature of a JIT entry point: the engine
// calls it with its own VM registers and the current JitEntry
// instruction's pointer-sized immediate.
type JitEntryFunc func(regs *VMRegisters, entryArg uintptr)

// ScriptFunction is everything the JIT needs to know about one script
// function. The host owns the real
// implementation; this module only reads through the interface and
// writes through SetJITFunction.
type ScriptFunction interface {
	ID() uint32
	ByteCode() []uint32
	DeclaredAt() Location
	Declaration() string
	Name() string
	Module() Module // nil for anonymous functions
	SetJITFunction(fn JitEntryFunc)
}

// Module identifies the compilation unit a script function belongs to,
// used by the translator's mangling scheme.
type Module interface {
	Name() string
}

// GlobalProperty is a single addressable global the translator may need
// to reference by pointer.
type GlobalProperty struct {
	Name string
	Addr uintptr
}

// GlobalPropertyResolver looks up the GlobalProperty registered at a
// given host address, a map from pointer to global property.
type GlobalPropertyResolver interface {
	LookupGlobalByAddress(addr uintptr) (GlobalProperty, bool)
}

// JITCompilerV2 is the interface the engine drives, collapsed to two
// methods (the native signature lives on JitEntryFunc above since it is
// never called by the engine through this interface — the engine calls
// the function pointer it was handed directly).
type JITCompilerV2 interface {
	NewFunction(fn ScriptFunction)
	CleanFunction(fn ScriptFunction, jitFn JitEntryFunc)
}

func (l Location) String() string {
	if l.Section == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.Section, l.Row, l.Col)
}
