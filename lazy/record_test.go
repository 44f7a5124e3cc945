package lazy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/engine"
)

type fakeFn struct {
	id   uint32
	name string
	jit  engine.JitEntryFunc
}

func (f *fakeFn) ID() uint32                  { return f.id }
func (f *fakeFn) ByteCode() []uint32          { return nil }
func (f *fakeFn) DeclaredAt() engine.Location { return engine.Location{} }
func (f *fakeFn) Declaration() string         { return f.name + "()" }
func (f *fakeFn) Name() string                { return f.name }
func (f *fakeFn) Module() engine.Module       { return nil }
func (f *fakeFn) SetJITFunction(fn engine.JitEntryFunc) { f.jit = fn }

func TestRecordHit_IncrementsAndStampsTimes(t *testing.T) {
	rec := newRecord(&fakeFn{id: 1, name: "f"}, false)

	assert.EqualValues(t, 1, rec.recordHit())
	assert.EqualValues(t, 2, rec.recordHit())

	snap := rec.snapshot()
	assert.EqualValues(t, 2, snap.Hits)
	assert.False(t, snap.FirstHit.IsZero())
	assert.False(t, snap.LastHit.IsZero())
	assert.False(t, snap.Compiled)
	assert.False(t, snap.Failed)
}

func TestMarkCompiled_SetsFlagAndTimestamp(t *testing.T) {
	rec := newRecord(&fakeFn{id: 2, name: "g"}, false)
	assert.False(t, rec.isCompiled())

	rec.markCompiled()

	assert.True(t, rec.isCompiled())
	assert.False(t, rec.snapshot().CompileTime.IsZero())
}

func TestMarkFailed_IsSticky(t *testing.T) {
	rec := newRecord(&fakeFn{id: 3, name: "h"}, false)
	assert.False(t, rec.isFailed())
	rec.markFailed()
	assert.True(t, rec.isFailed())
}

func TestSnapshot_NameMatchesFunction(t *testing.T) {
	rec := newRecord(&fakeFn{id: 4, name: "my_func"}, false)
	assert.Equal(t, "my_func", rec.snapshot().Name)
}

func TestClockNow_DefaultsToRealTime(t *testing.T) {
	before := time.Now()
	got := clockNow()
	assert.False(t, got.Before(before.Add(-time.Second)))
}
