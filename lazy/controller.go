package lazy

import (
	"context"
	"sort"
	"sync"
	"unsafe"

	"github.com/wudi/aseajit/ccompiler"
	"github.com/wudi/aseajit/engine"
	"github.com/wudi/aseajit/fnconfig"
	"github.com/wudi/aseajit/logging"
	"github.com/wudi/aseajit/opcodes"
	"github.com/wudi/aseajit/runtimeabi"
	"github.com/wudi/aseajit/translator"
)

// nativeEntry is the exact calling convention the generated C's entry
// function exposes; assignment-compatible with engine.JitEntryFunc.
type nativeEntry = engine.JitEntryFunc

// Controller owns the lazy-compilation policy: every script function
// the engine hands to Register gets a counting
// trampoline installed as its JIT entry; once a function's JitEntry hit
// count crosses the configured threshold, the controller translates,
// compiles, links and swaps in the real native entry.
type Controller struct {
	cfg      Config
	tr       *translator.Translator
	compiler ccompiler.Compiler
	helpers  runtimeabi.Binding
	log      *logging.Logger
	cfgCB    fnconfig.RequestCallback

	mu       sync.Mutex
	records  map[uint32]*LazyFunctionRecord
	modules  []ccompiler.Module // kept alive for the controller's lifetime
	compiled int
}

// New creates a Controller. helpers is the bound runtime-ABI symbol
// table (see runtimeabi.Bind) that every compiled module links against
// in addition to its own extern list.
func New(cfg Config, tr *translator.Translator, compiler ccompiler.Compiler, helpers runtimeabi.Binding, log *logging.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		tr:       tr,
		compiler: compiler,
		helpers:  helpers,
		log:      log,
		records:  map[uint32]*LazyFunctionRecord{},
	}
}

// SetFunctionConfigRequestCallback installs the callback used to
// discover per-function config tags.
func (c *Controller) SetFunctionConfigRequestCallback(cb fnconfig.RequestCallback) { c.cfgCB = cb }

// Register installs a counting trampoline (or compiles eagerly, per
// Config.Eager) for fn, the controller's half of engine.JITCompilerV2's
// NewFunction.
func (c *Controller) Register(fn engine.ScriptFunction) {
	cfg := fnconfig.Resolve(c.cfgCB, fn.ID())

	c.mu.Lock()
	rec := newRecord(fn, cfg.DisableJIT)
	c.records[fn.ID()] = rec
	c.mu.Unlock()

	if cfg.DisableJIT {
		return
	}

	if c.cfg.Eager {
		c.compile(context.Background(), rec)
		return
	}

	fn.SetJITFunction(c.trampoline(rec))
}

// Deregister removes fn's bookkeeping, the controller's half of
// JITCompilerV2's CleanFunction. Gating this on "is a compile currently
// in flight for fn" is the caller's responsibility; Deregister itself
// is unconditional.
func (c *Controller) Deregister(fn engine.ScriptFunction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, fn.ID())
}

// trampoline returns the JIT entry installed before native code exists.
// It first advances the program pointer past the JitEntry instruction
// itself so the interpreter doesn't re-enter this same trampoline at the
// same program counter forever, then counts the hit and, once past
// threshold, hands compilation to a background goroutine so the calling
// interpreter thread is never blocked on the C compiler.
func (c *Controller) trampoline(rec *LazyFunctionRecord) engine.JitEntryFunc {
	advance := uintptr(opcodes.OP_JitEntry.SizeWords() * 4)
	return func(regs *engine.VMRegisters, entryArg uintptr) {
		regs.ProgramPointer = unsafe.Add(regs.ProgramPointer, advance)

		if rec.isFailed() || rec.isCompiled() {
			return
		}
		hits := rec.recordHit()
		if hits == c.cfg.HitsBeforeFuncCompile {
			go c.compile(context.Background(), rec)
		}
	}
}

// compile runs the full pipeline for rec: translate, compile, link, and
// swap in the real entry point. Failures are logged and stick — a
// function that fails to JIT once stays interpreted, it is never
// retried.
func (c *Controller) compile(ctx context.Context, rec *LazyFunctionRecord) {
	c.mu.Lock()
	full := c.cfg.MaxCompiledFunctions > 0 && c.compiled >= c.cfg.MaxCompiledFunctions
	c.mu.Unlock()
	if full {
		return
	}

	out, err := c.tr.Translate(rec.fn, c.cfg.TraceFunctions)
	if err != nil {
		c.log.Errorf("translate %s: %v", rec.fn.Name(), err)
		rec.markFailed()
		return
	}

	externs := make(map[string]uintptr, len(c.helpers)+len(out.Externs))
	for name, addr := range c.helpers {
		externs[name] = addr
	}
	for _, ref := range out.Externs {
		if ref.Addr != 0 {
			externs[ref.Name] = ref.Addr
		}
	}

	mod, err := c.compiler.Compile(ctx, out.Source, externs)
	if err != nil {
		c.log.Errorf("compile %s: %v", rec.fn.Name(), err)
		rec.markFailed()
		return
	}

	var native nativeEntry
	if err := ccompiler.RegisterEntryPoint(mod, out.MangledName, &native); err != nil {
		c.log.Errorf("compile %s: %v", rec.fn.Name(), err)
		mod.Close()
		rec.markFailed()
		return
	}

	rec.fn.SetJITFunction(native)
	rec.markCompiled()

	c.mu.Lock()
	c.modules = append(c.modules, mod)
	c.compiled++
	c.mu.Unlock()

	if out.FallbackCount > 0 {
		cfg := fnconfig.Resolve(c.cfgCB, rec.fn.ID())
		if !cfg.IgnorePerfWarnings {
			c.log.Warnf("%s compiled with %d fallback site(s)", rec.fn.Name(), out.FallbackCount)
		}
	}
}

// Stats returns a snapshot of every registered function's lifecycle.
func (c *Controller) Stats() []FunctionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FunctionStats, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TopHotspots returns the n functions with the most JitEntry hits,
// highest first.
func (c *Controller) TopHotspots(n int) []FunctionStats {
	all := c.Stats()
	sort.Slice(all, func(i, j int) bool { return all[i].Hits > all[j].Hits })
	if n < len(all) {
		all = all[:n]
	}
	return all
}
