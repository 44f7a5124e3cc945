// Package aseajit is the integration facade: the single type
// a host script engine constructs and drives through engine.JITCompilerV2,
// wiring together the bytecode translator, the lazy compilation
// controller, the runtime-ABI bindings and the C-compiler backend.
package aseajit

import (
	"github.com/wudi/aseajit/ccompiler"
	"github.com/wudi/aseajit/engine"
	"github.com/wudi/aseajit/fnconfig"
	"github.com/wudi/aseajit/lazy"
	"github.com/wudi/aseajit/logging"
	"github.com/wudi/aseajit/runtimeabi"
	"github.com/wudi/aseajit/translator"
)

// Options configures a Facade at construction time. The zero value is
// usable: it yields an eager-off, non-trace, non-human-readable compiler
// shelling out to "cc", logging to the standard logger until a
// MessageWriter is attached.
type Options struct {
	TranslatorConfig translator.Config
	LazyConfig       lazy.Config
	Compiler         ccompiler.Compiler
	Helpers          runtimeabi.Helpers
	Globals          engine.GlobalPropertyResolver
	FuncAddr         translator.FunctionAddressResolver
	Writer           engine.MessageWriter
}

// Facade implements engine.JITCompilerV2 against the rest of this
// module's packages. One Facade is created per script engine instance.
type Facade struct {
	controller *lazy.Controller
	translator *translator.Translator
	log        *logging.Logger
	cfgCB      fnconfig.RequestCallback
}

// New wires a Facade from opts, filling in reasonable defaults for
// anything left zero: an ExecCompiler shelling out to "cc", NoopHelpers
// if the host hasn't supplied a real runtime-ABI implementation yet, and,
// when LazyConfig leaves both HitsBeforeFuncCompile and
// MaxCompiledFunctions zero, the threshold, cap and warning ratio of
// lazy.DefaultConfig (its Eager, HumanReadable and TraceFunctions flags
// are kept). TranslatorConfig is used as given.
func New(opts Options) *Facade {
	compiler := opts.Compiler
	if compiler == nil {
		compiler = ccompiler.NewExecCompiler()
	}

	helpers := opts.Helpers
	if helpers == nil {
		helpers = runtimeabi.NoopHelpers{}
	}

	log := logging.New(opts.Writer, "aseajit")

	tr := translator.New(opts.TranslatorConfig, opts.Globals, opts.FuncAddr)

	lazyCfg := opts.LazyConfig
	if lazyCfg.HitsBeforeFuncCompile == 0 && lazyCfg.MaxCompiledFunctions == 0 {
		def := lazy.DefaultConfig()
		def.Eager = lazyCfg.Eager
		def.HumanReadable = lazyCfg.HumanReadable
		def.TraceFunctions = lazyCfg.TraceFunctions
		lazyCfg = def
	}

	return &Facade{
		controller: lazy.New(lazyCfg, tr, compiler, runtimeabi.Bind(helpers), log),
		translator: tr,
		log:        log,
	}
}

// SetMessageWriter attaches (or replaces) the engine's diagnostic sink,
// for hosts that construct their message callback after the facade.
func (f *Facade) SetMessageWriter(w engine.MessageWriter) { f.log.SetWriter(w) }

// SetFunctionConfigRequestCallback installs the per-function config
// discovery hook.
func (f *Facade) SetFunctionConfigRequestCallback(cb fnconfig.RequestCallback) {
	f.cfgCB = cb
	f.controller.SetFunctionConfigRequestCallback(cb)
}

// DiscoverFunctionConfig resolves fn's per-function config tags through
// the installed callback, exposed
// directly for hosts or tests that want to inspect the resolved value
// without waiting for compilation to observe its effect.
func (f *Facade) DiscoverFunctionConfig(fn engine.ScriptFunction) fnconfig.Config {
	return fnconfig.Resolve(f.cfgCB, fn.ID())
}

// NewFunction registers fn with the lazy controller; the engine calls
// this once per script function as it is compiled or loaded.
func (f *Facade) NewFunction(fn engine.ScriptFunction) { f.controller.Register(fn) }

// CleanFunction releases fn's bookkeeping; the engine calls this when
// it discards a function. jitFn is the entry point the engine had on
// file, ignored here since the controller tracks functions by id
// rather than by the function pointer it handed out.
func (f *Facade) CleanFunction(fn engine.ScriptFunction, jitFn engine.JitEntryFunc) {
	f.controller.Deregister(fn)
}

// Stats returns a snapshot of every registered function's compilation
// lifecycle.
func (f *Facade) Stats() []lazy.FunctionStats { return f.controller.Stats() }

// TopHotspots returns the n functions with the most JitEntry hits.
func (f *Facade) TopHotspots(n int) []lazy.FunctionStats { return f.controller.TopHotspots(n) }

var _ engine.JITCompilerV2 = (*Facade)(nil)
