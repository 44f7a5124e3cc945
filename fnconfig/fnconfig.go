// Package fnconfig parses the per-function configuration tags a script
// author can attach to a function declaration. Unknown tags are ignored rather than rejected, the same
// forward-compatible stance the host engine's own pragma parsing takes.
package fnconfig

import "strings"

// Config is the set of recognized per-function tags.
type Config struct {
	// IgnorePerfWarnings suppresses the lazy controller's fallback
	// perf warning for this function.
	IgnorePerfWarnings bool

	// DisableJIT excludes this function from compilation entirely; every
	// call always runs through the interpreter.
	DisableJIT bool

	// DumpC is set by the dump_c tag. It is parsed and reported (see
	// Resolve), but the lazy controller does not act on it: no C source
	// is written out or logged for the function.
	DumpC bool
}

// Parse reads a raw per-function config string — a comma-separated list
// of bare tag names, the same shape as the host engine's existing
// metadata strings — into a Config. Unrecognized tags are silently
// skipped.
func Parse(raw string) Config {
	var cfg Config
	for _, tag := range strings.Split(raw, ",") {
		switch strings.TrimSpace(tag) {
		case "ignore_perf_warnings":
			cfg.IgnorePerfWarnings = true
		case "disable_jit":
			cfg.DisableJIT = true
		case "dump_c":
			cfg.DumpC = true
		}
	}
	return cfg
}

// RequestCallback is how the host engine supplies a function's raw
// config string on demand, rather than the translator keeping its own
// registry.
type RequestCallback func(fnID uint32) string

// Resolve asks cb for fn's raw config and parses it. A nil cb or an
// empty string both yield the zero Config (no overrides).
func Resolve(cb RequestCallback, fnID uint32) Config {
	if cb == nil {
		return Config{}
	}
	return Parse(cb(fnID))
}
