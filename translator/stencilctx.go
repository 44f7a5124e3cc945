package translator

import (
	"fmt"

	"github.com/wudi/aseajit/bytecode"
)

// stencilCtx is the per-instruction context handed to every stencil
// function: the instruction itself, the full function bytecode (for jump
// target resolution), and access back to the Translator for extern
// declaration and fallback bookkeeping.
type stencilCtx struct {
	tr   *Translator
	ins  bytecode.Instruction
	code []bytecode.Word
	fnID uint32
}

// stencilFunc emits the C statements for one instruction (not including
// the surrounding `bcN: { ... }` block, which emitBody supplies).
type stencilFunc func(tc *stencilCtx) string

// AutoInc returns the statement advancing l_bc past this instruction
//: "l_bc += N;" where N is the
// instruction's word size.
func (tc *stencilCtx) AutoInc() string {
	return fmt.Sprintf("l_bc += %d;\n", tc.ins.Op.SizeWords())
}

// Fallback emits the fixed fallback sequence: write the VM
// registers back from the stencil locals and return, optionally
// commented with reason. It counts toward the per-compilation fallback
// total surfaced as a perf warning.
func (tc *stencilCtx) Fallback(reason string) string {
	tc.tr.fallbackCount++
	s := "regs->programPointer = l_bc;\n"
	s += "regs->stackPointer = (asea_var*)l_sp;\n"
	s += "regs->stackFramePointer = (asea_var*)l_fp;\n"
	s += "return;\n"
	if reason != "" {
		s += "/* fallback: " + reason + " */\n"
	}
	return s
}

// TargetLabel returns the C label name for the block starting at the
// given byte offset.
func (tc *stencilCtx) TargetLabel(byteOffset int) string {
	return fmt.Sprintf("bc%d", byteOffset)
}

// JumpTarget resolves a JMP-family instruction's byte offset target: the
// word immediately after this instruction, plus the signed word delta
// carried in its first operand word.
func (tc *stencilCtx) JumpTarget() int {
	deltaWords := int(tc.ins.Arg32(1))
	nextWord := tc.ins.Offset/4 + tc.ins.Op.SizeWords()
	return (nextWord + deltaWords) * 4
}

// declareExtern records a reference to a dynamic (non-ABI) external
// symbol, emitting its `extern` declaration into the C buffer exactly
// once per translation unit, and notifying the map-extern callback.
func (tc *stencilCtx) declareExtern(ref ExternRef, cType string) string {
	if !tc.tr.declared[ref.Name] {
		tc.tr.declared[ref.Name] = true
		tc.tr.buf.WriteString("extern " + cType + " " + ref.Name + ";\n")
		tc.tr.externs = append(tc.tr.externs, ref)
		if tc.tr.mapExt != nil {
			tc.tr.mapExt(ref)
		}
	}
	return ref.Name
}

// ScriptFunctionSymbol returns the C name for a call target, declaring
// its extern on first use.
func (tc *stencilCtx) ScriptFunctionSymbol(calleeID uint32) string {
	name := scriptFunctionExternName(calleeID)
	addr := uintptr(0)
	if tc.tr.funcAddr != nil {
		if a, ok := tc.tr.funcAddr.ResolveScriptFunctionAddress(calleeID); ok {
			addr = a
		}
	}
	return tc.declareExtern(ExternRef{Name: name, Kind: ExternScriptFunction, Addr: addr}, "asDWORD")
}

// GlobalOrStringSymbol resolves a pointer operand to either a global
// property extern or a per-function string-constant extern: pointers
// to global properties are queried via the engine's address-keyed map;
// other pointers are treated as string-constant objects with a
// per-function sequence number.
func (tc *stencilCtx) GlobalOrStringSymbol(addr uintptr) string {
	if tc.tr.globals != nil {
		if prop, ok := tc.tr.globals.LookupGlobalByAddress(addr); ok {
			id, seen := tc.tr.globalIDs[addr]
			if !seen {
				id = len(tc.tr.globalIDs)
				tc.tr.globalIDs[addr] = id
			}
			name := globalExternName(id)
			_ = prop
			return tc.declareExtern(ExternRef{Name: name, Kind: ExternGlobalVariable, Addr: addr}, "void*")
		}
	}
	seq := tc.tr.stringSeq
	tc.tr.stringSeq++
	name := stringConstExternName(seq, tc.fnID)
	return tc.declareExtern(ExternRef{Name: name, Kind: ExternStringConstant, Addr: addr}, "void*")
}
