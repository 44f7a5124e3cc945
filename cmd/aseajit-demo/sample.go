package main

import "github.com/wudi/aseajit/opcodes"

// word encodes an opcode tag into the low byte of a code word; the rest
// of that word stays zero, since operands start at the next word (see
// opcodes.ArgClass's doc comment).
func word(op opcodes.Opcode) uint32 { return uint32(op) }

// buildSample assembles a tiny script function body by hand: a JitEntry
// at the top (its pointer immediate gets overwritten with an entry label
// by the translator itself, so it starts zeroed here), two immediates
// stored into frame slots, an integer add, and a return. It exists only to
// give the demo something concrete to disassemble and translate — it was
// never meant to run.
func buildSample() []uint32 {
	code := []uint32{
		word(opcodes.OP_JitEntry), 0, 0, // JitEntry: label patched in by the translator

		word(opcodes.OP_SetV4), uint32(uint16(0)), 5, // frame[0] <- 5
		word(opcodes.OP_SetV4), uint32(uint16(4)), 7, // frame[4] <- 7

		word(opcodes.OP_ADDi), uint32(uint16(0)), uint32(uint16(0)), uint32(uint16(4)), // frame[0] = frame[0] + frame[4]

		word(opcodes.OP_RET), 0,
	}
	return code
}
