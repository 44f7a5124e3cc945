package translator

import (
	"fmt"
	"sort"

	"github.com/wudi/aseajit/bytecode"
	"github.com/wudi/aseajit/disasm"
)

// emitDispatchSwitch writes the entry dispatcher: a switch on
// entry_label whose cases goto the block matching each JitEntry's
// assigned label.
func (t *Translator) emitDispatchSwitch(labels map[int]int) {
	// invert byte-offset -> label into label -> byte-offset (the first
	// JitEntry of a collapsed run), emitted in ascending label order for
	// stable, diffable output.
	byLabel := map[int]int{}
	for offset, label := range labels {
		if prev, ok := byLabel[label]; !ok || offset < prev {
			byLabel[label] = offset
		}
	}
	ordered := make([]int, 0, len(byLabel))
	for label := range byLabel {
		ordered = append(ordered, label)
	}
	sort.Ints(ordered)

	t.buf.WriteString("\tswitch (entry_label) {\n")
	for _, label := range ordered {
		fmt.Fprintf(&t.buf, "\tcase %d: goto bc%d;\n", label, byLabel[label])
	}
	t.buf.WriteString("\tdefault: ;\n\t}\n")
}

// emitBody walks code once, emitting one labeled block per instruction
//. Fall-through between blocks is the control flow
// in the common case; stencils that need to jump emit an explicit goto.
func (t *Translator) emitBody(fnID uint32, code []bytecode.Word) error {
	it := bytecode.NewIterator(code)
	for !it.End() {
		ins, ok := it.Next()
		if !ok {
			break
		}
		fmt.Fprintf(&t.buf, "bc%d: {\n", ins.Offset)
		if t.cfg.HumanReadable {
			fmt.Fprintf(&t.buf, "\t/* %s */\n", disasm.Disassemble(ins, nil))
		}

		tc := &stencilCtx{tr: t, ins: ins, code: code, fnID: fnID}
		body := t.emitInstruction(tc)
		t.buf.WriteString(body)
		t.buf.WriteString("}\n")

		if t.cfg.forcesFallbackAfter(ins.Op) {
			fmt.Fprintf(&t.buf, "bc%d_forced_fallback: {\n%s}\n", ins.Offset, tc.Fallback("debug.fallback_after_instruction"))
		}
	}
	return nil
}

// emitInstruction selects and runs the stencil for one instruction,
// falling back when the opcode is unsupported or test-blacklisted.
func (t *Translator) emitInstruction(tc *stencilCtx) string {
	if t.cfg.isBlacklisted(tc.ins.Op) {
		return tc.Fallback("debug.blacklist_instructions")
	}
	stencil, ok := stencilTable[tc.ins.Op]
	if !ok {
		return tc.Fallback(fmt.Sprintf("opcode %s not supported by the translator", tc.ins.Op))
	}
	return stencil(tc)
}
