// Package opcodes defines the bytecode instruction set the translator
// consumes: the opcode enumeration, the per-opcode size/encoding
// descriptor table, and the typed operand accessors used by every
// instruction view.
package opcodes

import "fmt"

// Opcode identifies one bytecode instruction. It occupies the low byte of
// a 32-bit code word; the rest of that word carries no operand, and the
// instruction's operands occupy the words that follow (see ArgClass).
type Opcode byte

// The opcode set. Names follow the host engine's own mnemonics verbatim
// since stencils and diagnostics both print them literally.
const (
	OP_POP Opcode = iota
	OP_PshC4
	OP_PshC8
	OP_PshV4
	OP_PshV8
	OP_PshVPtr
	OP_PSF
	OP_PGA
	OP_PshGPtr
	OP_VAR

	OP_PopPtr
	OP_SetV1
	OP_SetV2
	OP_SetV4
	OP_SetV8
	OP_CpyVtoR4
	OP_CpyRtoV4
	OP_CpyVtoV4
	OP_CpyVtoV8
	OP_LDV
	OP_GETOBJREF

	OP_RefCpyV
	OP_REFCPY

	OP_RDR1
	OP_RDR2
	OP_RDR4
	OP_RDR8

	OP_CALL
	OP_CALLSYS
	OP_CALLINTF
	OP_CALLBND
	OP_RET
	OP_JitEntry
	OP_SUSPEND

	OP_CMPIi
	OP_CMPi64
	OP_CMPu
	OP_CMPf
	OP_CMPd

	OP_JMP
	OP_JZ
	OP_JNZ
	OP_JS
	OP_JNS
	OP_JP
	OP_JNP
	OP_JLowZ
	OP_JLowNZ

	OP_TZ
	OP_TNZ
	OP_TS
	OP_TNS
	OP_TP
	OP_TNP

	OP_INCi8
	OP_INCi16
	OP_INCi32
	OP_INCi64
	OP_DECi8
	OP_DECi16
	OP_DECi32
	OP_DECi64
	OP_INCf
	OP_DECf
	OP_INCd
	OP_DECd

	OP_NEGi
	OP_NEGi64
	OP_NEGf
	OP_NEGd
	OP_BNOT
	OP_BNOT64
	OP_NOT

	OP_ADDi
	OP_SUBi
	OP_MULi
	OP_ADDi64
	OP_SUBi64
	OP_MULi64
	OP_ADDf
	OP_SUBf
	OP_MULf
	OP_DIVf
	OP_MODf
	OP_ADDd
	OP_SUBd
	OP_MULd
	OP_DIVd
	OP_MODd
	OP_DIVi
	OP_MODi
	OP_DIVi64
	OP_MODi64
	OP_DIVu
	OP_MODu
	OP_DIVu64
	OP_MODu64

	OP_BAND
	OP_BXOR
	OP_BOR
	OP_BSLL
	OP_BSRL
	OP_BSRA
	OP_BAND64
	OP_BXOR64
	OP_BOR64
	OP_BSLL64
	OP_BSRL64
	OP_BSRA64

	OP_ADDIi
	OP_SUBIi
	OP_MULIi

	OP_i8TOi16
	OP_i8TOi32
	OP_i16TOi32
	OP_i32TOi8
	OP_i32TOi16
	OP_i32TOi64
	OP_i64TOi32
	OP_uTOf
	OP_uTOd
	OP_u64TOf
	OP_u64TOd
	OP_iTOf
	OP_iTOd
	OP_i64TOf
	OP_i64TOd
	OP_fTOi
	OP_fTOu
	OP_fTOd
	OP_fTOi64
	OP_fTOu64
	OP_dTOi
	OP_dTOu
	OP_dTOf
	OP_dTOi64
	OP_dTOu64
	OP_iTOb
	OP_dTOb

	OP_CAST
	OP_NEWOBJ
	OP_FREE
	OP_ALLOC
	OP_CALLOBJMETHOD

	opcodeCount
)

// ArgClass groups opcodes by the shape of their encoded operands, used by
// both the bytecode iterator (to compute instruction size) and the
// disassembler (to choose a formatting routine).
//
// Word 0 of every instruction carries the opcode tag alone (in its low
// byte); operands always start at word 1, one full word per field
// regardless of the field's natural width. This keeps SetArgPtr and
// friends from ever touching the opcode word.
type ArgClass byte

const (
	ArgNone ArgClass = iota
	ArgWordSigned
	ArgWordUnsigned
	Arg32
	ArgWord32
	Arg64
	Arg32x2
	ArgWordx3
	ArgWord64
	ArgWordx2
	ArgWordWord32
	Arg64x32
	ArgWord32x2
)

// Info describes one opcode: its display name, its total size in 32-bit
// code words (including the opcode word itself), and its argument
// encoding class.
type Info struct {
	Name     string
	SizeWords int
	Class    ArgClass
}

var table [opcodeCount]Info

func def(op Opcode, name string, words int, class ArgClass) {
	table[op] = Info{Name: name, SizeWords: words, Class: class}
}

func init() {
	def(OP_POP, "POP", 1, ArgNone)
	def(OP_PshC4, "PshC4", 2, Arg32)
	def(OP_PshC8, "PshC8", 3, Arg64)
	def(OP_PshV4, "PshV4", 2, ArgWordSigned)
	def(OP_PshV8, "PshV8", 2, ArgWordSigned)
	def(OP_PshVPtr, "PshVPtr", 2, ArgWordSigned)
	def(OP_PSF, "PSF", 2, ArgWordSigned)
	def(OP_PGA, "PGA", 3, Arg64)
	def(OP_PshGPtr, "PshGPtr", 3, Arg64)
	def(OP_VAR, "VAR", 2, ArgWordSigned)

	def(OP_PopPtr, "PopPtr", 1, ArgNone)
	def(OP_SetV1, "SetV1", 3, ArgWordWord32)
	def(OP_SetV2, "SetV2", 3, ArgWordWord32)
	def(OP_SetV4, "SetV4", 3, ArgWordWord32)
	def(OP_SetV8, "SetV8", 4, ArgWord64)
	def(OP_CpyVtoR4, "CpyVtoR4", 2, ArgWordSigned)
	def(OP_CpyRtoV4, "CpyRtoV4", 2, ArgWordSigned)
	def(OP_CpyVtoV4, "CpyVtoV4", 3, ArgWordWord32)
	def(OP_CpyVtoV8, "CpyVtoV8", 3, ArgWordWord32)
	def(OP_LDV, "LDV", 2, ArgWordSigned)
	def(OP_GETOBJREF, "GETOBJREF", 2, ArgWordSigned)

	def(OP_RefCpyV, "RefCpyV", 2, ArgWordSigned)
	def(OP_REFCPY, "REFCPY", 1, ArgNone)

	def(OP_RDR1, "RDR1", 2, ArgWordSigned)
	def(OP_RDR2, "RDR2", 2, ArgWordSigned)
	def(OP_RDR4, "RDR4", 2, ArgWordSigned)
	def(OP_RDR8, "RDR8", 2, ArgWordSigned)

	def(OP_CALL, "CALL", 2, Arg32)
	def(OP_CALLSYS, "CALLSYS", 2, Arg32)
	def(OP_CALLINTF, "CALLINTF", 2, Arg32)
	def(OP_CALLBND, "CALLBND", 2, Arg32)
	def(OP_RET, "RET", 2, ArgWordUnsigned)
	def(OP_JitEntry, "JitEntry", 1+ptrWords, Arg64)
	def(OP_SUSPEND, "SUSPEND", 1, ArgNone)

	def(OP_CMPIi, "CMPIi", 3, ArgWord32)
	def(OP_CMPi64, "CMPi64", 4, ArgWord64)
	def(OP_CMPu, "CMPu", 3, ArgWord32)
	def(OP_CMPf, "CMPf", 3, ArgWord32)
	def(OP_CMPd, "CMPd", 4, ArgWord64)

	def(OP_JMP, "JMP", 2, Arg32)
	def(OP_JZ, "JZ", 2, Arg32)
	def(OP_JNZ, "JNZ", 2, Arg32)
	def(OP_JS, "JS", 2, Arg32)
	def(OP_JNS, "JNS", 2, Arg32)
	def(OP_JP, "JP", 2, Arg32)
	def(OP_JNP, "JNP", 2, Arg32)
	def(OP_JLowZ, "JLowZ", 2, Arg32)
	def(OP_JLowNZ, "JLowNZ", 2, Arg32)

	def(OP_TZ, "TZ", 1, ArgNone)
	def(OP_TNZ, "TNZ", 1, ArgNone)
	def(OP_TS, "TS", 1, ArgNone)
	def(OP_TNS, "TNS", 1, ArgNone)
	def(OP_TP, "TP", 1, ArgNone)
	def(OP_TNP, "TNP", 1, ArgNone)

	for _, op := range []Opcode{OP_INCi8, OP_INCi16, OP_INCi32, OP_INCi64,
		OP_DECi8, OP_DECi16, OP_DECi32, OP_DECi64,
		OP_INCf, OP_DECf, OP_INCd, OP_DECd} {
		def(op, op.defaultName(), 1, ArgNone)
	}

	def(OP_NEGi, "NEGi", 2, ArgWordSigned)
	def(OP_NEGi64, "NEGi64", 2, ArgWordSigned)
	def(OP_NEGf, "NEGf", 2, ArgWordSigned)
	def(OP_NEGd, "NEGd", 2, ArgWordSigned)
	def(OP_BNOT, "BNOT", 2, ArgWordSigned)
	def(OP_BNOT64, "BNOT64", 2, ArgWordSigned)
	def(OP_NOT, "NOT", 2, ArgWordSigned)

	for _, op := range []Opcode{OP_ADDi, OP_SUBi, OP_MULi, OP_ADDi64, OP_SUBi64, OP_MULi64,
		OP_ADDf, OP_SUBf, OP_MULf, OP_DIVf, OP_MODf,
		OP_ADDd, OP_SUBd, OP_MULd, OP_DIVd, OP_MODd,
		OP_DIVi, OP_MODi, OP_DIVi64, OP_MODi64, OP_DIVu, OP_MODu, OP_DIVu64, OP_MODu64,
		OP_BAND, OP_BXOR, OP_BOR, OP_BSLL, OP_BSRL, OP_BSRA,
		OP_BAND64, OP_BXOR64, OP_BOR64, OP_BSLL64, OP_BSRL64, OP_BSRA64} {
		def(op, op.defaultName(), 4, ArgWordx3)
	}

	def(OP_ADDIi, "ADDIi", 4, Arg32x2)
	def(OP_SUBIi, "SUBIi", 4, Arg32x2)
	def(OP_MULIi, "MULIi", 4, Arg32x2)

	castOps := []Opcode{OP_i8TOi16, OP_i8TOi32, OP_i16TOi32, OP_i32TOi8, OP_i32TOi16,
		OP_i32TOi64, OP_i64TOi32, OP_uTOf, OP_uTOd, OP_u64TOf, OP_u64TOd,
		OP_iTOf, OP_iTOd, OP_i64TOf, OP_i64TOd, OP_fTOi, OP_fTOu, OP_fTOd,
		OP_fTOi64, OP_fTOu64, OP_dTOi, OP_dTOu, OP_dTOf, OP_dTOi64, OP_dTOu64,
		OP_iTOb, OP_dTOb}
	for _, op := range castOps {
		def(op, op.defaultName(), 2, ArgWordSigned)
	}

	def(OP_CAST, "CAST", 2, Arg32)
	def(OP_NEWOBJ, "NEWOBJ", 2, Arg32)
	def(OP_FREE, "FREE", 2, ArgWordSigned)
	def(OP_ALLOC, "ALLOC", 1+ptrWords, ArgWord32)
	def(OP_CALLOBJMETHOD, "CALLOBJMETHOD", 2, Arg32)
}

// ptrWords is the number of 32-bit code words a pointer-sized immediate
// occupies. Fixed at 2 (64-bit host) the way the rest of this catalog
// assumes AS_PTR_SIZE == 2, mirroring the host engine's own build.
const ptrWords = 2

// defaultName derives a mnemonic for opcodes whose family shares a
// pattern (INCi8, DECi8, ADDi64, ...) so the table above doesn't have to
// spell every permutation out by hand.
func (op Opcode) defaultName() string {
	switch op {
	case OP_INCi8:
		return "INCi8"
	case OP_INCi16:
		return "INCi16"
	case OP_INCi32:
		return "INCi32"
	case OP_INCi64:
		return "INCi64"
	case OP_DECi8:
		return "DECi8"
	case OP_DECi16:
		return "DECi16"
	case OP_DECi32:
		return "DECi32"
	case OP_DECi64:
		return "DECi64"
	case OP_INCf:
		return "INCf"
	case OP_DECf:
		return "DECf"
	case OP_INCd:
		return "INCd"
	case OP_DECd:
		return "DECd"
	case OP_ADDi:
		return "ADDi"
	case OP_SUBi:
		return "SUBi"
	case OP_MULi:
		return "MULi"
	case OP_ADDi64:
		return "ADDi64"
	case OP_SUBi64:
		return "SUBi64"
	case OP_MULi64:
		return "MULi64"
	case OP_ADDf:
		return "ADDf"
	case OP_SUBf:
		return "SUBf"
	case OP_MULf:
		return "MULf"
	case OP_DIVf:
		return "DIVf"
	case OP_MODf:
		return "MODf"
	case OP_ADDd:
		return "ADDd"
	case OP_SUBd:
		return "SUBd"
	case OP_MULd:
		return "MULd"
	case OP_DIVd:
		return "DIVd"
	case OP_MODd:
		return "MODd"
	case OP_DIVi:
		return "DIVi"
	case OP_MODi:
		return "MODi"
	case OP_DIVi64:
		return "DIVi64"
	case OP_MODi64:
		return "MODi64"
	case OP_DIVu:
		return "DIVu"
	case OP_MODu:
		return "MODu"
	case OP_DIVu64:
		return "DIVu64"
	case OP_MODu64:
		return "MODu64"
	case OP_BAND:
		return "BAND"
	case OP_BXOR:
		return "BXOR"
	case OP_BOR:
		return "BOR"
	case OP_BSLL:
		return "BSLL"
	case OP_BSRL:
		return "BSRL"
	case OP_BSRA:
		return "BSRA"
	case OP_BAND64:
		return "BAND64"
	case OP_BXOR64:
		return "BXOR64"
	case OP_BOR64:
		return "BOR64"
	case OP_BSLL64:
		return "BSLL64"
	case OP_BSRL64:
		return "BSRL64"
	case OP_BSRA64:
		return "BSRA64"
	case OP_i8TOi16:
		return "i8TOi16"
	case OP_i8TOi32:
		return "i8TOi32"
	case OP_i16TOi32:
		return "i16TOi32"
	case OP_i32TOi8:
		return "i32TOi8"
	case OP_i32TOi16:
		return "i32TOi16"
	case OP_i32TOi64:
		return "i32TOi64"
	case OP_i64TOi32:
		return "i64TOi32"
	case OP_uTOf:
		return "uTOf"
	case OP_uTOd:
		return "uTOd"
	case OP_u64TOf:
		return "u64TOf"
	case OP_u64TOd:
		return "u64TOd"
	case OP_iTOf:
		return "iTOf"
	case OP_iTOd:
		return "iTOd"
	case OP_i64TOf:
		return "i64TOf"
	case OP_i64TOd:
		return "i64TOd"
	case OP_fTOi:
		return "fTOi"
	case OP_fTOu:
		return "fTOu"
	case OP_fTOd:
		return "fTOd"
	case OP_fTOi64:
		return "fTOi64"
	case OP_fTOu64:
		return "fTOu64"
	case OP_dTOi:
		return "dTOi"
	case OP_dTOu:
		return "dTOu"
	case OP_dTOf:
		return "dTOf"
	case OP_dTOi64:
		return "dTOi64"
	case OP_dTOu64:
		return "dTOu64"
	case OP_iTOb:
		return "iTOb"
	case OP_dTOb:
		return "dTOb"
	default:
		return "UNKNOWN"
	}
}

// Lookup returns the descriptor for op, or false if op is out of range.
func Lookup(op Opcode) (Info, bool) {
	if int(op) < 0 || int(op) >= int(opcodeCount) {
		return Info{}, false
	}
	return table[op], true
}

// SizeWords returns the encoded size of op in 32-bit code words, or 1 (the
// minimum instruction size) if op is unrecognized.
func (op Opcode) SizeWords() int {
	if info, ok := Lookup(op); ok && info.SizeWords > 0 {
		return info.SizeWords
	}
	return 1
}

func (op Opcode) String() string {
	if info, ok := Lookup(op); ok && info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("OP(%d)", byte(op))
}

// IsCallFamily reports whether op transfers control to another function
// through the engine.
func (op Opcode) IsCallFamily() bool {
	switch op {
	case OP_CALL, OP_CALLSYS, OP_CALLINTF, OP_CALLBND, OP_CALLOBJMETHOD:
		return true
	default:
		return false
	}
}
