package lazy

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/wudi/aseajit/engine"
)

// LazyFunctionRecord tracks one registered script function's compilation
// lifecycle: its hit count, whether native code has been attached, and
// the bookkeeping needed to answer Stats()/TopHotspots().
type LazyFunctionRecord struct {
	fn engine.ScriptFunction

	hits      int64 // atomic
	compiled  int32 // atomic bool
	failed    int32 // atomic bool
	ignoreJIT bool

	mu            sync.Mutex
	firstHit      time.Time
	lastHit       time.Time
	compileTime   time.Time
	fallbackCount int64
	totalCalls    int64
}

func newRecord(fn engine.ScriptFunction, disableJIT bool) *LazyFunctionRecord {
	return &LazyFunctionRecord{fn: fn, ignoreJIT: disableJIT}
}

// recordHit increments the hit counter and returns the new total.
func (r *LazyFunctionRecord) recordHit() int64 {
	now := clockNow()
	r.mu.Lock()
	if r.firstHit.IsZero() {
		r.firstHit = now
	}
	r.lastHit = now
	r.mu.Unlock()
	return atomic.AddInt64(&r.hits, 1)
}

func (r *LazyFunctionRecord) isCompiled() bool { return atomic.LoadInt32(&r.compiled) != 0 }
func (r *LazyFunctionRecord) isFailed() bool   { return atomic.LoadInt32(&r.failed) != 0 }

func (r *LazyFunctionRecord) markCompiled() {
	atomic.StoreInt32(&r.compiled, 1)
	r.mu.Lock()
	r.compileTime = clockNow()
	r.mu.Unlock()
}

func (r *LazyFunctionRecord) markFailed() { atomic.StoreInt32(&r.failed, 1) }

// FunctionStats is a point-in-time snapshot of one function's lifecycle,
// returned by Controller.Stats() and TopHotspots().
type FunctionStats struct {
	Name          string
	Hits          int64
	Compiled      bool
	Failed        bool
	FirstHit      time.Time
	LastHit       time.Time
	CompileTime   time.Time
	FallbackCount int64
	TotalCalls    int64
}

func (r *LazyFunctionRecord) snapshot() FunctionStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return FunctionStats{
		Name:          r.fn.Name(),
		Hits:          atomic.LoadInt64(&r.hits),
		Compiled:      r.isCompiled(),
		Failed:        r.isFailed(),
		FirstHit:      r.firstHit,
		LastHit:       r.lastHit,
		CompileTime:   r.compileTime,
		FallbackCount: r.fallbackCount,
		TotalCalls:    r.totalCalls,
	}
}

// clockNow is a package-level indirection so tests can substitute a
// fixed time source; production always uses time.Now.
var clockNow clock = systemClock
