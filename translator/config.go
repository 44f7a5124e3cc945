package translator

import "github.com/wudi/aseajit/opcodes"

// Config holds the translator-level knobs that change how C is
// emitted, as opposed to when compilation is triggered (that lives in
// package lazy) or what gets logged (package logging).
type Config struct {
	// HumanReadable interleaves a disassembly comment before every
	// stencil block.
	HumanReadable bool

	// TraceFunctions emits a runtime debug-message call at function
	// entry.
	TraceFunctions bool

	// BlacklistInstructions forces fallback for the named opcodes
	// regardless of translator support, a test hook.
	BlacklistInstructions map[opcodes.Opcode]bool

	// FallbackAfterInstruction forces a fallback immediately after every
	// instance of the named opcode, even when it was handled natively.
	FallbackAfterInstruction map[opcodes.Opcode]bool
}

// DefaultConfig returns a Config with no test hooks engaged and
// human-readable output off, matching the JIT's default runtime
// configuration.
func DefaultConfig() Config {
	return Config{
		BlacklistInstructions:    map[opcodes.Opcode]bool{},
		FallbackAfterInstruction: map[opcodes.Opcode]bool{},
	}
}

func (c Config) isBlacklisted(op opcodes.Opcode) bool {
	return c.BlacklistInstructions != nil && c.BlacklistInstructions[op]
}

func (c Config) forcesFallbackAfter(op opcodes.Opcode) bool {
	return c.FallbackAfterInstruction != nil && c.FallbackAfterInstruction[op]
}
