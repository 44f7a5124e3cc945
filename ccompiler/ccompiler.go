// Package ccompiler is the compilation pipeline's C-compiler black box:
// it turns one translation unit's C source into a loaded shared object
// and hands back callable function pointers for every symbol the
// translator exported. ExecCompiler does not bind the extern addresses
// it is handed (see ExecCompiler.Compile).
package ccompiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/ebitengine/purego"
)

// Module is one successfully compiled and loaded translation unit. Its
// entry points stay valid until Close is called; closing while a
// generated function is still registered as a script function's JIT
// entry point is a caller bug, not something this package guards against
// (mirrors the host engine's own lifetime contract on JIT-compiled code).
type Module interface {
	// Symbol resolves an exported C symbol to its address. ok is false
	// if the .so doesn't export a symbol with that name.
	Symbol(name string) (uintptr, bool)

	// Close unloads the shared object.
	Close() error
}

// Compiler turns C source plus a set of externs to bind into a Module.
type Compiler interface {
	// Compile builds source (one C translation unit) into a shared
	// object and loads it. externs maps symbol name to the host address
	// it should resolve to — the addresses of runtime-ABI helper
	// callbacks and any script-function/global/string-constant targets
	// the translator declared.
	Compile(ctx context.Context, source string, externs map[string]uintptr) (Module, error)
}

// ExecCompiler shells out to a system C compiler,
// the same os/exec pattern the host engine uses for every other
// subprocess it launches. It produces a position-independent shared
// object and loads it with purego, which lets this package call into
// the freshly compiled native code and expose Go functions back to it
// without cgo.
type ExecCompiler struct {
	// CC is the compiler binary to invoke, e.g. "cc" or "clang". Empty
	// means "cc".
	CC string

	// ExtraFlags are appended after the fixed -shared -fPIC -O2 set,
	// for e.g. "-g" or an alternate -march target.
	ExtraFlags []string

	// WorkDir is where the .c/.so pair is written. Empty means the
	// system temp directory.
	WorkDir string

	// KeepArtifacts, when true, leaves the .c/.so files on disk instead
	// of removing them (the .c once the .so is loaded, the .so when the
	// Module is closed) — useful alongside dump_c for inspecting what
	// was actually fed to the compiler.
	KeepArtifacts bool
}

// NewExecCompiler returns an ExecCompiler with the fixed defaults (cc,
// system temp dir, artifacts not kept).
func NewExecCompiler() *ExecCompiler {
	return &ExecCompiler{CC: "cc"}
}

func (c *ExecCompiler) cc() string {
	if c.CC == "" {
		return "cc"
	}
	return c.CC
}

// Compile writes source to a temp .c file, invokes the C compiler to
// produce a shared object, and dlopens it with RTLD_NOW|RTLD_GLOBAL.
// externs is not read: no symbol is bound to the addresses it carries,
// so every symbol the source references but does not define is left to
// the dynamic linker, and dlopen fails if one of them cannot be resolved.
func (c *ExecCompiler) Compile(ctx context.Context, source string, externs map[string]uintptr) (Module, error) {
	dir := c.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}

	cFile, err := os.CreateTemp(dir, "aseajit-*.c")
	if err != nil {
		return nil, fmt.Errorf("ccompiler: create source file: %w", err)
	}
	cPath := cFile.Name()
	if _, err := cFile.WriteString(source); err != nil {
		cFile.Close()
		return nil, fmt.Errorf("ccompiler: write source file: %w", err)
	}
	cFile.Close()

	soPath := cPath + ".so"

	args := append([]string{"-shared", "-fPIC", "-O2", "-o", soPath, cPath}, c.ExtraFlags...)
	cmd := exec.CommandContext(ctx, c.cc(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if !c.KeepArtifacts {
			os.Remove(cPath)
		}
		return nil, fmt.Errorf("ccompiler: %s failed: %w\n%s", c.cc(), err, stderr.String())
	}

	handle, err := purego.Dlopen(soPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		if !c.KeepArtifacts {
			os.Remove(cPath)
			os.Remove(soPath)
		}
		return nil, fmt.Errorf("ccompiler: dlopen %s: %w", soPath, err)
	}

	if !c.KeepArtifacts {
		os.Remove(cPath)
	}

	return &dlModule{
		handle:  handle,
		path:    soPath,
		keep:    c.KeepArtifacts,
		resolve: map[string]uintptr{},
	}, nil
}

// dlModule is a Module backed by a dlopen handle.
type dlModule struct {
	handle  uintptr
	path    string
	keep    bool
	resolve map[string]uintptr
}

func (m *dlModule) Symbol(name string) (uintptr, bool) {
	if addr, ok := m.resolve[name]; ok {
		return addr, true
	}
	addr, err := purego.Dlsym(m.handle, name)
	if err != nil {
		return 0, false
	}
	m.resolve[name] = addr
	return addr, true
}

func (m *dlModule) Close() error {
	if err := purego.Dlclose(m.handle); err != nil {
		return err
	}
	if !m.keep {
		return os.Remove(m.path)
	}
	return nil
}

// RegisterEntryPoint looks up a compiled function's JIT entry symbol and
// wraps it as an engine.JitEntryFunc, the native calling convention the
// engine invokes directly. dst must be a non-nil pointer to a
// function value with the exact C signature, matching purego.RegisterFunc's
// own contract.
func RegisterEntryPoint(mod Module, symbol string, dst any) error {
	addr, ok := mod.Symbol(symbol)
	if !ok {
		return fmt.Errorf("ccompiler: symbol %q not found in %T", symbol, mod)
	}
	purego.RegisterFunc(dst, addr)
	return nil
}
