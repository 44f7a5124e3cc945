// Package lazy drives the lazy/hotspot-triggered compilation policy: it
// tracks how often each JitEntry a script function reaches has
// actually fired, decides when a function has earned native code,
// and owns the pipeline from translator.Output through ccompiler.Compile
// to the atomic swap of a function's JIT entry point.
package lazy

import "time"

// Config is the compiler's tunable trigger policy.
type Config struct {
	// Eager disables hotspot tracking entirely: every registered
	// function is compiled as soon as it is registered.
	Eager bool

	// HitsBeforeFuncCompile is the call-count threshold a function must
	// cross before lazy compilation is attempted.
	HitsBeforeFuncCompile int64

	// MaxCompiledFunctions bounds how many functions may carry native
	// code at once; past this, newly-hot functions stay interpreted.
	MaxCompiledFunctions int

	// PerfWarningFallbackRatio is carried in the config but not read by
	// the controller: after a compile it logs a perf warning whenever the
	// translated function contains at least one fallback site, unless the
	// function's config sets ignore_perf_warnings.
	PerfWarningFallbackRatio float64

	// TraceFunctions is passed to the translator on every compile.
	// HumanReadable is not read by the controller; the translator's own
	// Config decides whether disassembly comments are emitted.
	HumanReadable  bool
	TraceFunctions bool
}

// DefaultConfig matches the host engine's own JIT defaults in spirit:
// compile after a handful of calls, cap the cache, and set
// PerfWarningFallbackRatio to a third.
func DefaultConfig() Config {
	return Config{
		HitsBeforeFuncCompile:    10,
		MaxCompiledFunctions:     1000,
		PerfWarningFallbackRatio: 0.33,
	}
}

// clock lets tests substitute a deterministic time source; production
// code always uses time.Now.
type clock func() time.Time

func systemClock() time.Time { return time.Now() }
