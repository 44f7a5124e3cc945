// Package translator lowers one script function's bytecode into a C
// translation unit. It is the
// only package that knows the stencil catalog; everything else treats
// its Output as an opaque C source string plus a list of externs to
// resolve.
package translator

import (
	"fmt"
	"strings"

	"github.com/wudi/aseajit/bytecode"
	"github.com/wudi/aseajit/cheader"
	"github.com/wudi/aseajit/engine"
	"github.com/wudi/aseajit/opcodes"
)

// MapFunctionCallback is notified with the mangled C name chosen for a
// function, before its body is emitted.
type MapFunctionCallback func(mangledName string)

// MapExternCallback is notified once per extern the translator declares,
// so the caller (the lazy controller) can register it with the
// C-compiler's linker.
type MapExternCallback func(ExternRef)

// Output bundles one function's emitted translation unit with everything
// the controller needs to finish compiling it.
type Output struct {
	MangledName   string
	Source        string
	Externs       []ExternRef
	FallbackCount int
}

// Translator lowers bytecode to C. One instance is reused across many
// functions so that the mangled-name uniqueness ledger and the global-
// property id table persist across the whole compiler's lifetime.
type Translator struct {
	cfg      Config
	globals  engine.GlobalPropertyResolver
	funcAddr FunctionAddressResolver
	mapFn    MapFunctionCallback
	mapExt   MapExternCallback

	usedNames map[string]bool
	globalIDs map[uintptr]int

	// per-function state, reset by prepareNewContext
	buf           strings.Builder
	declared      map[string]bool
	externs       []ExternRef
	fallbackCount int
	stringSeq     int
}

// New creates a Translator. globals and funcAddr may be nil if the host
// engine has no globals or calls to resolve yet (tests commonly pass
// nil and simply never emit PGA/PshGPtr/CALL in their sample bytecode).
func New(cfg Config, globals engine.GlobalPropertyResolver, funcAddr FunctionAddressResolver) *Translator {
	return &Translator{
		cfg:       cfg,
		globals:   globals,
		funcAddr:  funcAddr,
		usedNames: map[string]bool{},
		globalIDs: map[uintptr]int{},
	}
}

// SetMapFunctionCallback installs the callback invoked with each
// function's mangled name.
func (t *Translator) SetMapFunctionCallback(cb MapFunctionCallback) { t.mapFn = cb }

// SetMapExternCallback installs the callback invoked once per extern
// declared.
func (t *Translator) SetMapExternCallback(cb MapExternCallback) { t.mapExt = cb }

// prepareNewContext clears per-function state and seeds the buffer with
// the static preamble.
func (t *Translator) prepareNewContext() {
	t.buf.Reset()
	t.declared = map[string]bool{}
	t.externs = nil
	t.fallbackCount = 0
	t.stringSeq = 0
	t.buf.WriteString(cheader.Render())
	t.buf.WriteString("\n")
}

// Mangle computes the stable C function name for fn:
// `asea_<fn_id>_module_<escaped-module-name>`, anonymous modules use
// "anon", non-alphanumeric bytes in the module name are escaped as
// `_<hex>_`.
func (t *Translator) Mangle(fn engine.ScriptFunction) string {
	moduleName := "anon"
	if m := fn.Module(); m != nil {
		moduleName = escapeModuleName(m.Name())
	}
	return fmt.Sprintf("asea_%d_module_%s", fn.ID(), moduleName)
}

func escapeModuleName(name string) string {
	if name == "" {
		return "anon"
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if isAlnum {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "_%x_", c)
		}
	}
	return b.String()
}

// Translate lowers fn to a complete translation unit, following a
// seven-step lifecycle: prepare context, mangle the name, declare the
// entry signature, assign entry labels, emit the dispatch switch, walk
// the body, and close out the function.
func (t *Translator) Translate(fn engine.ScriptFunction, traceFunctions bool) (Output, error) {
	t.prepareNewContext()

	mangled := t.Mangle(fn)
	if t.usedNames[mangled] {
		return Output{}, fmt.Errorf("translator: mangled name %q already used (fn id collision or duplicate compile of fn %d)", mangled, fn.ID())
	}
	if t.mapFn != nil {
		t.mapFn(mangled)
	}

	code := wordsOf(fn.ByteCode())
	labels, err := t.assignEntryLabels(code)
	if err != nil {
		return Output{}, err
	}

	if loc := fn.DeclaredAt(); loc.Section != "" {
		fmt.Fprintf(&t.buf, "/* %s */\n", loc.String())
	}

	fmt.Fprintf(&t.buf, "void %s(asea_vm_registers* _regs, asPWORD entry_label) {\n", mangled)
	t.buf.WriteString("\tasea_vm_registers* regs = _regs;\n")
	// l_sp and l_fp are void*, not asea_var*: every access goes through
	// the ASEA_* macros in the cheader preamble, which cast to whatever
	// width the stencil needs rather than forcing one punning type here.
	t.buf.WriteString("\tasDWORD* l_bc;\n\tvoid* l_sp;\n\tvoid* l_fp;\n")
	t.buf.WriteString("\tl_bc = regs->programPointer;\n\tl_sp = (void*)regs->stackPointer;\n\tl_fp = (void*)regs->stackFramePointer;\n")

	if traceFunctions || t.cfg.TraceFunctions {
		t.buf.WriteString("\tasea_debug_message(regs, \"enter " + mangled + "\");\n")
	}

	t.emitDispatchSwitch(labels)

	if err := t.emitBody(fn.ID(), code); err != nil {
		return Output{}, err
	}

	t.buf.WriteString("}\n")
	t.usedNames[mangled] = true

	return Output{
		MangledName:   mangled,
		Source:        t.buf.String(),
		Externs:       append([]ExternRef(nil), t.externs...),
		FallbackCount: t.fallbackCount,
	}, nil
}

func wordsOf(raw []uint32) []bytecode.Word {
	out := make([]bytecode.Word, len(raw))
	copy(out, raw)
	return out
}

// assignEntryLabels is a first pass that assigns each JitEntry opcode a
// distinct positive label (starting at 1),
// rewrites its pointer immediate to that label, and collapses adjacent
// JitEntry instructions into one shared label.
func (t *Translator) assignEntryLabels(code []bytecode.Word) (map[int]int, error) {
	labels := map[int]int{} // byte offset -> label
	it := bytecode.NewIterator(code)
	label := 0
	prevWasEntry := false
	for !it.End() {
		ins, ok := it.Next()
		if !ok {
			break
		}
		if ins.Op != opcodes.OP_JitEntry {
			prevWasEntry = false
			continue
		}
		if !prevWasEntry {
			label++
		}
		labels[ins.Offset] = label
		// ins.words aliases code directly (bytecode.NewIterator never
		// copies), so this mutates the function's own bytecode in
		// place. Word 0 is the opcode tag; the label overwrites the
		// pointer-sized operand starting at word 1, never the tag itself.
		ins.SetArgPtr(1, uintptr(label))
		prevWasEntry = true
	}
	return labels, nil
}
