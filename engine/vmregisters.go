package engine

import "unsafe"

// VMRegisters is the Go-side mirror of the engine's native VM register
// block. Generated C addresses the same
// memory through its own layout-compatible struct; this type is what the
// pure-Go side of the pipeline (the lazy controller, the counting
// trampoline, fallback bookkeeping) reads and writes.
//
// Field order matters: it must match the layout the emitted C's
// `asea_vm_registers` struct assumes, since both are views over the same
// bytes the engine allocates. Never reorder these without updating
// cheader's preamble.
type VMRegisters struct {
	ProgramPointer    unsafe.Pointer // *uint32, current bytecode word
	StackPointer      unsafe.Pointer
	StackFramePointer unsafe.Pointer
	ValueRegister     uint64
	ObjectRegister    unsafe.Pointer
	ObjectType        unsafe.Pointer
	DoProcessSuspend  bool
	Ctx               unsafe.Pointer // opaque asIScriptContext*
}

// ProgramWord reads the current program pointer as a code-word index
// relative to base, the conversion the lazy controller needs when it
// must compare the VM's resume position against a JitEntry's byte offset.
func (r *VMRegisters) ProgramWord(base unsafe.Pointer) int {
	return int((uintptr(r.ProgramPointer) - uintptr(base)) / 4)
}
