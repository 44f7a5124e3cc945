// Package bytecode walks a script function's code-word stream and hands
// out non-owning instruction views.
package bytecode

import (
	"encoding/binary"
	"math"

	"github.com/wudi/aseajit/opcodes"
)

// Word is one 32-bit bytecode element. The host engine's bytecode is a
// flat array of these; an Instruction never copies them, it only slices
// into the backing array the caller owns.
type Word = uint32

// Instruction is a non-owning view of one bytecode instruction: the
// opcode, the code words backing its operands, and its byte offset from
// the start of the function.
type Instruction struct {
	Op     opcodes.Opcode
	Info   opcodes.Info
	Offset int // byte offset from function start
	words  []Word
}

// raw returns the underlying 32-bit word at the given word offset from
// the instruction's first word.
func (ins Instruction) raw(wordOffset int) Word {
	if wordOffset < 0 || wordOffset >= len(ins.words) {
		return 0
	}
	return ins.words[wordOffset]
}

// Arg16S returns the slot-th signed 16-bit operand starting at the given
// word offset (low half-word if slot 0, high half-word if slot 1).
func (ins Instruction) Arg16S(wordOffset, slot int) int16 {
	w := ins.raw(wordOffset)
	if slot == 0 {
		return int16(uint16(w))
	}
	return int16(uint16(w >> 16))
}

// Arg16U is the unsigned counterpart of Arg16S.
func (ins Instruction) Arg16U(wordOffset, slot int) uint16 {
	w := ins.raw(wordOffset)
	if slot == 0 {
		return uint16(w)
	}
	return uint16(w >> 16)
}

// Arg32 returns the signed 32-bit operand at the given word offset.
func (ins Instruction) Arg32(wordOffset int) int32 {
	return int32(ins.raw(wordOffset))
}

// Arg32U returns the unsigned 32-bit operand at the given word offset.
func (ins Instruction) Arg32U(wordOffset int) uint32 {
	return ins.raw(wordOffset)
}

// Arg64 returns the signed 64-bit operand spanning wordOffset and
// wordOffset+1 (little-endian word pair, matching the host's in-memory
// layout of asQWORD operands).
func (ins Instruction) Arg64(wordOffset int) int64 {
	return int64(ins.Arg64U(wordOffset))
}

// Arg64U is the unsigned counterpart of Arg64.
func (ins Instruction) Arg64U(wordOffset int) uint64 {
	lo := uint64(ins.raw(wordOffset))
	hi := uint64(ins.raw(wordOffset + 1))
	return lo | hi<<32
}

// ArgFloat64 reinterprets the 64-bit operand at wordOffset as an IEEE 754
// double, the way CMPd/PshC8 immediates are stored.
func (ins Instruction) ArgFloat64(wordOffset int) float64 {
	return math.Float64frombits(ins.Arg64U(wordOffset))
}

// ArgFloat32 reinterprets the 32-bit operand at wordOffset as an IEEE 754
// float.
func (ins Instruction) ArgFloat32(wordOffset int) float32 {
	return math.Float32frombits(ins.Arg32U(wordOffset))
}

// ArgPtr returns the pointer-sized operand at wordOffset. Pointers occupy
// two code words.
func (ins Instruction) ArgPtr(wordOffset int) uintptr {
	return uintptr(ins.Arg64U(wordOffset))
}

// SetArgPtr overwrites the pointer-sized immediate at wordOffset in the
// backing array. Used to mutate a JitEntry's immediate at registration
// (store the lazy-function record address) and at translation time
// (store the entry label).
func (ins Instruction) SetArgPtr(wordOffset int, v uintptr) {
	if wordOffset < 0 || wordOffset+1 >= len(ins.words) {
		return
	}
	ins.words[wordOffset] = Word(uint64(v) & 0xFFFFFFFF)
	ins.words[wordOffset+1] = Word(uint64(v) >> 32)
}

// Words exposes the raw backing words of the instruction.
func (ins Instruction) Words() []Word { return ins.words }

// Iterator walks a contiguous span of code words, yielding one
// Instruction per step. It is finite and non-restartable: once End()
// returns true, create a new Iterator over the same span to walk again.
type Iterator struct {
	code []Word
	pos  int // word index
}

// NewIterator wraps code for sequential instruction-at-a-time traversal.
func NewIterator(code []Word) *Iterator {
	return &Iterator{code: code}
}

// End reports whether the iterator has consumed the whole span.
func (it *Iterator) End() bool {
	return it.pos >= len(it.code)
}

// Next yields the instruction at the current position and advances past
// it. Calling Next after End reports true returns the zero Instruction
// and false.
func (it *Iterator) Next() (Instruction, bool) {
	if it.End() {
		return Instruction{}, false
	}
	startWord := it.pos
	op := opcodes.Opcode(byte(it.code[startWord]))
	info, known := opcodes.Lookup(op)
	size := 1
	if known && info.SizeWords > 0 {
		size = info.SizeWords
	}
	end := startWord + size
	if end > len(it.code) {
		end = len(it.code)
	}
	ins := Instruction{
		Op:     op,
		Info:   info,
		Offset: startWord * 4,
		words:  it.code[startWord:end],
	}
	it.pos = end
	return ins, true
}

// InstructionAt constructs a single instruction view at a known word
// offset without iterating from the start.
func InstructionAt(code []Word, wordOffset int) (Instruction, bool) {
	if wordOffset < 0 || wordOffset >= len(code) {
		return Instruction{}, false
	}
	op := opcodes.Opcode(byte(code[wordOffset]))
	info, _ := opcodes.Lookup(op)
	size := op.SizeWords()
	end := wordOffset + size
	if end > len(code) {
		end = len(code)
	}
	return Instruction{
		Op:     op,
		Info:   info,
		Offset: wordOffset * 4,
		words:  code[wordOffset:end],
	}, true
}

// ByteOffsetToWord converts a byte offset (as stored in
// Instruction.Offset and stack-trace program counters) to a word index
// into code.
func ByteOffsetToWord(byteOffset int) int { return byteOffset / 4 }

// EncodeWords serializes a slice of code words to little-endian bytes,
// the wire form the host engine stores bytecode in.
func EncodeWords(words []Word) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}
