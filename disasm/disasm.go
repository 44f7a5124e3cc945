// Package disasm renders one bytecode instruction as human-readable
// text, for the `c.human_readable` dump mode. It never
// drives execution or codegen; it is purely diagnostic.
package disasm

import (
	"fmt"

	"github.com/wudi/aseajit/bytecode"
	"github.com/wudi/aseajit/opcodes"
)

// FunctionLookup resolves a callee id to a display name and declaration
// string for the call-family opcodes.
type FunctionLookup interface {
	LookupFunction(id uint32) (name, declaration string, ok bool)
}

// Disassemble formats one instruction. fn may be nil; when it is, call
// instructions print their raw id instead of a resolved name. Operand
// words always start at word 1 (word 0 is the opcode tag alone), per
// opcodes.ArgClass's convention.
func Disassemble(ins bytecode.Instruction, fn FunctionLookup) string {
	name := ins.Op.String()
	switch ins.Info.Class {
	case opcodes.ArgNone:
		return name
	case opcodes.ArgWordSigned:
		return fmt.Sprintf("%-14s %d", name, ins.Arg16S(1, 0))
	case opcodes.ArgWordUnsigned:
		return fmt.Sprintf("%-14s %d", name, ins.Arg16U(1, 0))
	case opcodes.Arg32:
		if ins.Op.IsCallFamily() {
			return callString(name, uint32(ins.Arg32(1)), fn)
		}
		return fmt.Sprintf("%-14s %d", name, ins.Arg32(1))
	case opcodes.ArgWord32:
		return fmt.Sprintf("%-14s %d, %d", name, ins.Arg16S(1, 0), ins.Arg32(2))
	case opcodes.Arg64:
		return fmt.Sprintf("%-14s %d", name, ins.Arg64(1))
	case opcodes.Arg32x2:
		return fmt.Sprintf("%-14s %d, %d, %d", name, ins.Arg16S(1, 0), ins.Arg16S(2, 0), ins.Arg32(3))
	case opcodes.ArgWordx3:
		return fmt.Sprintf("%-14s %d, %d, %d", name, ins.Arg16S(1, 0), ins.Arg16S(2, 0), ins.Arg16S(3, 0))
	case opcodes.ArgWord64:
		return fmt.Sprintf("%-14s %d, %#x", name, ins.Arg16S(1, 0), ins.Arg64U(2))
	case opcodes.ArgWordx2:
		return fmt.Sprintf("%-14s %d, %d", name, ins.Arg16S(1, 0), ins.Arg16S(2, 0))
	case opcodes.ArgWordWord32:
		return fmt.Sprintf("%-14s %d, %d", name, ins.Arg16S(1, 0), ins.Arg32(2))
	case opcodes.Arg64x32:
		return fmt.Sprintf("%-14s %d, %d", name, ins.Arg64(1), ins.Arg32(3))
	case opcodes.ArgWord32x2:
		return fmt.Sprintf("%-14s %d, %d, %d", name, ins.Arg16S(1, 0), ins.Arg32(2), ins.Arg32(3))
	default:
		return name
	}
}

func callString(opName string, id uint32, fn FunctionLookup) string {
	if fn == nil {
		return fmt.Sprintf("%-14s #%d", opName, id)
	}
	name, decl, ok := fn.LookupFunction(id)
	if !ok {
		return fmt.Sprintf("%-14s #%d <unresolved>", opName, id)
	}
	return fmt.Sprintf("%-14s #%d %s (%s)", opName, id, name, decl)
}

// DumpFunction disassembles every instruction in code, one per line,
// prefixed with its byte offset — the shape `dump_c_code`-adjacent
// tooling and the demo CLI both want for a full-function listing.
func DumpFunction(code []bytecode.Word, fn FunctionLookup) string {
	it := bytecode.NewIterator(code)
	out := ""
	for !it.End() {
		ins, ok := it.Next()
		if !ok {
			break
		}
		out += fmt.Sprintf("%6d: %s\n", ins.Offset, Disassemble(ins, fn))
	}
	return out
}
