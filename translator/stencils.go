package translator

import (
	"fmt"

	"github.com/wudi/aseajit/opcodes"
)

// stencilTable maps every opcode the translator handles to the C
// statements producing its effect. An opcode absent from this table
// always falls back to the interpreter; opcodes whose semantics are
// unsafe to inline (NEWOBJ/ALLOC/FREE, CAST, the call family, ...) have
// entries whose stencil emits only the fallback sequence.
//
// Every stencil reads its operands starting at word 1 (word 0 holds only
// the opcode tag), matching opcodes.ArgClass's convention.
var stencilTable map[opcodes.Opcode]stencilFunc

const ptrBytes = 8

func init() {
	stencilTable = map[opcodes.Opcode]stencilFunc{}

	stencilTable[opcodes.OP_POP] = func(tc *stencilCtx) string {
		return fmt.Sprintf("ASEA_POP_BYTES(4);\n%s", tc.AutoInc())
	}
	stencilTable[opcodes.OP_PopPtr] = func(tc *stencilCtx) string {
		return fmt.Sprintf("ASEA_POP_BYTES(%d);\n%s", ptrBytes, tc.AutoInc())
	}

	// push-immediate family: PshC4/PshC8 carry the literal value inline
	// in the bytecode.
	stencilTable[opcodes.OP_PshC4] = func(tc *stencilCtx) string {
		v := tc.ins.Arg32U(1)
		return fmt.Sprintf("ASEA_PUSH_BYTES(4);\nASEA_TOP(asDWORD) = %dU;\n%s", v, tc.AutoInc())
	}
	stencilTable[opcodes.OP_PshC8] = func(tc *stencilCtx) string {
		v := tc.ins.Arg64U(1)
		return fmt.Sprintf("ASEA_PUSH_BYTES(8);\nASEA_TOP(asQWORD) = %dULL;\n%s", v, tc.AutoInc())
	}

	// push-variable family: PshV4/PshV8/PshVPtr copy a frame slot onto
	// the stack top.
	stencilTable[opcodes.OP_PshV4] = pushFrame(4, "asDWORD")
	stencilTable[opcodes.OP_PshV8] = pushFrame(8, "asQWORD")
	stencilTable[opcodes.OP_PshVPtr] = pushFrame(ptrBytes, "void*")

	// PSF pushes the address of a frame slot.
	stencilTable[opcodes.OP_PSF] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_PUSH_BYTES(%d);\nASEA_TOP(void*) = (void*)((char*)l_fp + (asPWORD)(%d) * 4);\n%s",
			ptrBytes, n, tc.AutoInc())
	}

	// PGA pushes the address of a global property; PshGPtr pushes the
	// pointer value stored at that address. Both resolve the global
	// through the translator's extern table.
	stencilTable[opcodes.OP_PGA] = func(tc *stencilCtx) string {
		addr := tc.ins.ArgPtr(1)
		sym := tc.GlobalOrStringSymbol(addr)
		return fmt.Sprintf("ASEA_PUSH_BYTES(%d);\nASEA_TOP(void*) = (void*)&%s;\n%s", ptrBytes, sym, tc.AutoInc())
	}
	stencilTable[opcodes.OP_PshGPtr] = func(tc *stencilCtx) string {
		addr := tc.ins.ArgPtr(1)
		sym := tc.GlobalOrStringSymbol(addr)
		return fmt.Sprintf("ASEA_PUSH_BYTES(%d);\nASEA_TOP(void*) = *(void**)&%s;\n%s", ptrBytes, sym, tc.AutoInc())
	}

	// VAR pushes the literal frame-slot offset itself, used by a handful
	// of system-call argument sequences that want the offset rather than
	// its contents.
	stencilTable[opcodes.OP_VAR] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_PUSH_BYTES(%d);\nASEA_TOP(asPWORD) = (asPWORD)(%d);\n%s", ptrBytes, n, tc.AutoInc())
	}

	// set-immediate family: writes a literal into a frame slot.
	stencilTable[opcodes.OP_SetV1] = setFrame("asBYTE")
	stencilTable[opcodes.OP_SetV2] = setFrame("asWORD")
	stencilTable[opcodes.OP_SetV4] = setFrame("asDWORD")
	stencilTable[opcodes.OP_SetV8] = setFrame64()

	// frame<->value-register copies.
	stencilTable[opcodes.OP_CpyVtoR4] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_VALUEREG(asDWORD) = ASEA_FRAME(asDWORD, %d);\n%s", n, tc.AutoInc())
	}
	stencilTable[opcodes.OP_CpyRtoV4] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_FRAME(asDWORD, %d) = ASEA_VALUEREG(asDWORD);\n%s", n, tc.AutoInc())
	}
	stencilTable[opcodes.OP_CpyVtoV4] = func(tc *stencilCtx) string {
		dst := tc.ins.Arg16S(1, 0)
		src := tc.ins.Arg32(2)
		return fmt.Sprintf("ASEA_FRAME(asDWORD, %d) = ASEA_FRAME(asDWORD, %d);\n%s", dst, src, tc.AutoInc())
	}
	stencilTable[opcodes.OP_CpyVtoV8] = func(tc *stencilCtx) string {
		dst := tc.ins.Arg16S(1, 0)
		src := tc.ins.Arg32(2)
		return fmt.Sprintf("ASEA_FRAME(asQWORD, %d) = ASEA_FRAME(asQWORD, %d);\n%s", dst, src, tc.AutoInc())
	}

	// LDV loads the address of a frame slot into the value register's
	// pointer-sized view; GETOBJREF dereferences one level further to
	// follow an object handle stored in a frame slot.
	stencilTable[opcodes.OP_LDV] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_VALUEREG(void*) = (void*)((char*)l_fp + (asPWORD)(%d) * 4);\n%s", n, tc.AutoInc())
	}
	stencilTable[opcodes.OP_GETOBJREF] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_FRAME(void*, %d) = *(void**)ASEA_FRAME(void*, %d);\n%s", n, n, tc.AutoInc())
	}

	// reference-copy: both opcodes fall back unconditionally, whatever
	// the type being copied; no case is inlined.
	stencilTable[opcodes.OP_RefCpyV] = func(tc *stencilCtx) string {
		return tc.Fallback("RefCpyV requires engine-managed refcounting")
	}
	stencilTable[opcodes.OP_REFCPY] = func(tc *stencilCtx) string {
		return tc.Fallback("REFCPY requires engine-managed refcounting")
	}

	// dereferenced reads: zero the frame slot's 32-bit view, then store
	// the value read through the pointer held in the value register at
	// the slot's narrow width.
	stencilTable[opcodes.OP_RDR1] = derefRead("asBYTE")
	stencilTable[opcodes.OP_RDR2] = derefRead("asWORD")
	stencilTable[opcodes.OP_RDR4] = derefRead("asDWORD")
	stencilTable[opcodes.OP_RDR8] = derefRead("asQWORD")

	// the call family always falls back: an "informed" fallback that
	// still writes back registers so the interpreter can finish the call
	// and the JIT can resume at the next JitEntry, rather than a blind
	// bail-out.
	for _, op := range []opcodes.Opcode{opcodes.OP_CALL, opcodes.OP_CALLSYS, opcodes.OP_CALLINTF,
		opcodes.OP_CALLBND, opcodes.OP_CALLOBJMETHOD} {
		op := op
		stencilTable[op] = func(tc *stencilCtx) string {
			return tc.Fallback(fmt.Sprintf("%s resumes through the interpreter", op))
		}
	}
	stencilTable[opcodes.OP_RET] = func(tc *stencilCtx) string {
		return tc.Fallback("RET unwinds the call stack through the interpreter")
	}
	stencilTable[opcodes.OP_SUSPEND] = func(tc *stencilCtx) string {
		return fmt.Sprintf("if (regs->doProcessSuspend) {\n%s}\n%s", tc.Fallback("SUSPEND requested"), tc.AutoInc())
	}

	// JitEntry is a no-op landing pad: the dispatch switch already sent
	// control here, the stencil only needs to fall through to the next
	// instruction.
	stencilTable[opcodes.OP_JitEntry] = func(tc *stencilCtx) string {
		return tc.AutoInc()
	}

	// compare family sets the value register to -1/0/1, the same
	// tri-state the interpreter's JZ/JS/etc. predicates read afterward.
	stencilTable[opcodes.OP_CMPIi] = cmpImmediate32("asINT32")
	stencilTable[opcodes.OP_CMPu] = cmpImmediate32("asDWORD")
	stencilTable[opcodes.OP_CMPi64] = cmpImmediate64("asINT64")
	stencilTable[opcodes.OP_CMPf] = cmpImmediateFloat()
	stencilTable[opcodes.OP_CMPd] = cmpImmediateDouble()

	// JMP and the eight conditional jumps.
	stencilTable[opcodes.OP_JMP] = func(tc *stencilCtx) string {
		return fmt.Sprintf("goto %s;\n", tc.TargetLabel(tc.JumpTarget()))
	}
	stencilTable[opcodes.OP_JZ] = condJump("(asINT32)ASEA_VALUEREG(asINT32) == 0")
	stencilTable[opcodes.OP_JNZ] = condJump("(asINT32)ASEA_VALUEREG(asINT32) != 0")
	stencilTable[opcodes.OP_JS] = condJump("(asINT32)ASEA_VALUEREG(asINT32) < 0")
	stencilTable[opcodes.OP_JNS] = condJump("(asINT32)ASEA_VALUEREG(asINT32) >= 0")
	stencilTable[opcodes.OP_JP] = condJump("(asINT32)ASEA_VALUEREG(asINT32) > 0")
	stencilTable[opcodes.OP_JNP] = condJump("(asINT32)ASEA_VALUEREG(asINT32) <= 0")
	stencilTable[opcodes.OP_JLowZ] = condJump("(asBYTE)ASEA_VALUEREG(asDWORD) == 0")
	stencilTable[opcodes.OP_JLowNZ] = condJump("(asBYTE)ASEA_VALUEREG(asDWORD) != 0")

	// boolean test/set family: collapse the tri-state compare result
	// into a 0/1 in the value register.
	stencilTable[opcodes.OP_TZ] = boolSet("== 0")
	stencilTable[opcodes.OP_TNZ] = boolSet("!= 0")
	stencilTable[opcodes.OP_TS] = boolSet("< 0")
	stencilTable[opcodes.OP_TNS] = boolSet(">= 0")
	stencilTable[opcodes.OP_TP] = boolSet("> 0")
	stencilTable[opcodes.OP_TNP] = boolSet("<= 0")

	// inc/dec family: in-place update of the value register's typed
	// view.
	stencilTable[opcodes.OP_INCi8] = incdec("asINT8", "++")
	stencilTable[opcodes.OP_INCi16] = incdec("asINT16", "++")
	stencilTable[opcodes.OP_INCi32] = incdec("asINT32", "++")
	stencilTable[opcodes.OP_INCi64] = incdec("asINT64", "++")
	stencilTable[opcodes.OP_DECi8] = incdec("asINT8", "--")
	stencilTable[opcodes.OP_DECi16] = incdec("asINT16", "--")
	stencilTable[opcodes.OP_DECi32] = incdec("asINT32", "--")
	stencilTable[opcodes.OP_DECi64] = incdec("asINT64", "--")
	stencilTable[opcodes.OP_INCf] = incdec("float", "++")
	stencilTable[opcodes.OP_DECf] = incdec("float", "--")
	stencilTable[opcodes.OP_INCd] = incdec("double", "++")
	stencilTable[opcodes.OP_DECd] = incdec("double", "--")

	// unary family.
	stencilTable[opcodes.OP_NEGi] = unary("asINT32", "-")
	stencilTable[opcodes.OP_NEGi64] = unary("asINT64", "-")
	stencilTable[opcodes.OP_NEGf] = unary("float", "-")
	stencilTable[opcodes.OP_NEGd] = unary("double", "-")
	stencilTable[opcodes.OP_BNOT] = unary("asDWORD", "~")
	stencilTable[opcodes.OP_BNOT64] = unary("asQWORD", "~")
	stencilTable[opcodes.OP_NOT] = func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_FRAME(asDWORD, %d) = !ASEA_FRAME(asDWORD, %d);\n%s", n, n, tc.AutoInc())
	}

	// binary reg-reg arithmetic/bitwise family: dst, lhs, rhs are three
	// frame offsets.
	binType := map[opcodes.Opcode]binSpec{
		opcodes.OP_ADDi: {"asINT32", "+"}, opcodes.OP_SUBi: {"asINT32", "-"}, opcodes.OP_MULi: {"asINT32", "*"},
		opcodes.OP_ADDi64: {"asINT64", "+"}, opcodes.OP_SUBi64: {"asINT64", "-"}, opcodes.OP_MULi64: {"asINT64", "*"},
		opcodes.OP_ADDf: {"float", "+"}, opcodes.OP_SUBf: {"float", "-"}, opcodes.OP_MULf: {"float", "*"}, opcodes.OP_DIVf: {"float", "/"},
		opcodes.OP_ADDd: {"double", "+"}, opcodes.OP_SUBd: {"double", "-"}, opcodes.OP_MULd: {"double", "*"}, opcodes.OP_DIVd: {"double", "/"},
		opcodes.OP_BAND: {"asDWORD", "&"}, opcodes.OP_BXOR: {"asDWORD", "^"}, opcodes.OP_BOR: {"asDWORD", "|"},
		opcodes.OP_BSLL: {"asDWORD", "<<"}, opcodes.OP_BSRL: {"asDWORD", ">>"},
		opcodes.OP_BAND64: {"asQWORD", "&"}, opcodes.OP_BXOR64: {"asQWORD", "^"}, opcodes.OP_BOR64: {"asQWORD", "|"},
		opcodes.OP_BSLL64: {"asQWORD", "<<"}, opcodes.OP_BSRL64: {"asQWORD", ">>"},
	}
	for op, spec := range binType {
		stencilTable[op] = binaryReg(spec.ctype, spec.op)
	}
	// integer division can fault on divide-by-zero or INT_MIN/-1
	// overflow, and modulo inherits the same traps; those, along with
	// the arithmetic-shift ops, stay on an interpreter fallback rather
	// than risk a native SIGFPE the engine has no chance to catch. The
	// float/double DIV stencils above are exempt: IEEE division never
	// traps.
	for _, op := range []opcodes.Opcode{opcodes.OP_DIVi, opcodes.OP_DIVi64, opcodes.OP_DIVu, opcodes.OP_DIVu64,
		opcodes.OP_MODf, opcodes.OP_MODd, opcodes.OP_MODi, opcodes.OP_MODi64,
		opcodes.OP_MODu, opcodes.OP_MODu64, opcodes.OP_BSRA, opcodes.OP_BSRA64} {
		op := op
		stencilTable[op] = func(tc *stencilCtx) string {
			return tc.Fallback(fmt.Sprintf("%s needs interpreter-checked arithmetic", op))
		}
	}

	// binary reg-immediate family: dst = src op imm, all against frame
	// slots except the immediate.
	stencilTable[opcodes.OP_ADDIi] = binaryImm("+")
	stencilTable[opcodes.OP_SUBIi] = binaryImm("-")
	stencilTable[opcodes.OP_MULIi] = binaryImm("*")

	// numeric cast family: every leg is a plain C conversion between two
	// scalar types held in the same frame slot.
	castType := map[opcodes.Opcode][2]string{
		opcodes.OP_i8TOi16: {"asINT8", "asINT16"}, opcodes.OP_i8TOi32: {"asINT8", "asINT32"},
		opcodes.OP_i16TOi32: {"asINT16", "asINT32"}, opcodes.OP_i32TOi8: {"asINT32", "asINT8"},
		opcodes.OP_i32TOi16: {"asINT32", "asINT16"}, opcodes.OP_i32TOi64: {"asINT32", "asINT64"},
		opcodes.OP_i64TOi32: {"asINT64", "asINT32"},
		opcodes.OP_uTOf:     {"asDWORD", "float"}, opcodes.OP_uTOd: {"asDWORD", "double"},
		opcodes.OP_u64TOf: {"asQWORD", "float"}, opcodes.OP_u64TOd: {"asQWORD", "double"},
		opcodes.OP_iTOf: {"asINT32", "float"}, opcodes.OP_iTOd: {"asINT32", "double"},
		opcodes.OP_i64TOf: {"asINT64", "float"}, opcodes.OP_i64TOd: {"asINT64", "double"},
		opcodes.OP_fTOi: {"float", "asINT32"}, opcodes.OP_fTOu: {"float", "asDWORD"}, opcodes.OP_fTOd: {"float", "double"},
		opcodes.OP_fTOi64: {"float", "asINT64"}, opcodes.OP_fTOu64: {"float", "asQWORD"},
		opcodes.OP_dTOi: {"double", "asINT32"}, opcodes.OP_dTOu: {"double", "asDWORD"}, opcodes.OP_dTOf: {"double", "float"},
		opcodes.OP_dTOi64: {"double", "asINT64"}, opcodes.OP_dTOu64: {"double", "asQWORD"},
		opcodes.OP_iTOb: {"asINT32", "asDWORD"}, opcodes.OP_dTOb: {"double", "asDWORD"},
	}
	for op, pair := range castType {
		stencilTable[op] = numericCast(pair[0], pair[1])
	}

	// CAST (object handle cast), NEWOBJ, ALLOC and FREE all need the
	// engine's type system or allocator and are never inlined natively;
	// their stencils emit only the fallback sequence, commented with the
	// reason.
	stencilTable[opcodes.OP_CAST] = func(tc *stencilCtx) string {
		return tc.Fallback("CAST requires the engine's type system")
	}
	stencilTable[opcodes.OP_NEWOBJ] = func(tc *stencilCtx) string {
		return tc.Fallback("NEWOBJ requires the engine's object factory")
	}
	stencilTable[opcodes.OP_ALLOC] = func(tc *stencilCtx) string {
		return tc.Fallback("ALLOC requires the engine's memory manager")
	}
	stencilTable[opcodes.OP_FREE] = func(tc *stencilCtx) string {
		return tc.Fallback("FREE requires the engine's reference counting")
	}
}

func pushFrame(size int, ctype string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_PUSH_BYTES(%d);\nASEA_TOP(%s) = ASEA_FRAME(%s, %d);\n%s", size, ctype, ctype, n, tc.AutoInc())
	}
}

func setFrame(ctype string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		v := tc.ins.Arg32U(2)
		return fmt.Sprintf("ASEA_FRAME(%s, %d) = (%s)%dU;\n%s", ctype, n, ctype, v, tc.AutoInc())
	}
}

func setFrame64() stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		v := tc.ins.Arg64U(2)
		return fmt.Sprintf("ASEA_FRAME(asQWORD, %d) = %dULL;\n%s", n, v, tc.AutoInc())
	}
}

func derefRead(ctype string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_FRAME(asDWORD, %d) = 0;\nASEA_FRAME(%s, %d) = *(%s*)ASEA_VALUEREG(void*);\n%s",
			n, ctype, n, ctype, tc.AutoInc())
	}
}

func cmpImmediate32(ctype string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		imm := tc.ins.Arg32(2)
		return fmt.Sprintf(
			"{ %s a = ASEA_FRAME(%s, %d), b = (%s)%d; ASEA_VALUEREG(asINT32) = (a < b) ? -1 : (a > b) ? 1 : 0; }\n%s",
			ctype, ctype, n, ctype, imm, tc.AutoInc())
	}
}

func cmpImmediate64(ctype string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		imm := tc.ins.Arg64(2)
		return fmt.Sprintf(
			"{ %s a = ASEA_FRAME(%s, %d), b = (%s)%dLL; ASEA_VALUEREG(asINT32) = (a < b) ? -1 : (a > b) ? 1 : 0; }\n%s",
			ctype, ctype, n, ctype, imm, tc.AutoInc())
	}
}

func cmpImmediateFloat() stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		imm := tc.ins.ArgFloat32(2)
		return fmt.Sprintf(
			"{ float a = ASEA_FRAME(float, %d), b = (float)%v; ASEA_VALUEREG(asINT32) = (a < b) ? -1 : (a > b) ? 1 : 0; }\n%s",
			n, imm, tc.AutoInc())
	}
}

func cmpImmediateDouble() stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		imm := tc.ins.ArgFloat64(2)
		return fmt.Sprintf(
			"{ double a = ASEA_FRAME(double, %d), b = (double)%v; ASEA_VALUEREG(asINT32) = (a < b) ? -1 : (a > b) ? 1 : 0; }\n%s",
			n, imm, tc.AutoInc())
	}
}

func condJump(predicate string) stencilFunc {
	return func(tc *stencilCtx) string {
		target := tc.TargetLabel(tc.JumpTarget())
		return fmt.Sprintf("if (%s) goto %s;\n", predicate, target)
	}
}

func boolSet(predicate string) stencilFunc {
	return func(tc *stencilCtx) string {
		return fmt.Sprintf("ASEA_VALUEREG(asDWORD) = (ASEA_VALUEREG(asINT32) %s) ? VALUE_OF_BOOLEAN_TRUE : 0;\n%s",
			predicate, tc.AutoInc())
	}
}

func incdec(ctype, op string) stencilFunc {
	return func(tc *stencilCtx) string {
		return fmt.Sprintf("%sASEA_VALUEREG(%s);\n%s", op, ctype, tc.AutoInc())
	}
}

func unary(ctype, op string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_FRAME(%s, %d) = %s ASEA_FRAME(%s, %d);\n%s", ctype, n, op, ctype, n, tc.AutoInc())
	}
}

type binSpec struct {
	ctype string
	op    string
}

func binaryReg(ctype, op string) stencilFunc {
	return func(tc *stencilCtx) string {
		dst := tc.ins.Arg16S(1, 0)
		lhs := tc.ins.Arg16S(2, 0)
		rhs := tc.ins.Arg16S(3, 0)
		return fmt.Sprintf("ASEA_FRAME(%s, %d) = ASEA_FRAME(%s, %d) %s ASEA_FRAME(%s, %d);\n%s",
			ctype, dst, ctype, lhs, op, ctype, rhs, tc.AutoInc())
	}
}

func binaryImm(op string) stencilFunc {
	return func(tc *stencilCtx) string {
		dst := tc.ins.Arg16S(1, 0)
		src := tc.ins.Arg16S(2, 0)
		imm := tc.ins.Arg32(3)
		return fmt.Sprintf("ASEA_FRAME(asINT32, %d) = ASEA_FRAME(asINT32, %d) %s %d;\n%s",
			dst, src, op, imm, tc.AutoInc())
	}
}

func numericCast(from, to string) stencilFunc {
	return func(tc *stencilCtx) string {
		n := tc.ins.Arg16S(1, 0)
		return fmt.Sprintf("ASEA_FRAME(%s, %d) = (%s)ASEA_FRAME(%s, %d);\n%s", to, n, to, from, n, tc.AutoInc())
	}
}
