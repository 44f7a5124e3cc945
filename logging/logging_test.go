package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wudi/aseajit/engine"
)

type recordingWriter struct {
	loc      engine.Location
	severity engine.MessageType
	text     string
	calls    int
}

func (w *recordingWriter) WriteMessage(loc engine.Location, severity engine.MessageType, text string) {
	w.loc, w.severity, w.text = loc, severity, text
	w.calls++
}

func TestLogger_RoutesToAttachedWriter(t *testing.T) {
	var w recordingWriter
	l := New(&w, "translator")

	l.Errorf("bad opcode %d", 7)

	assert.Equal(t, 1, w.calls)
	assert.Equal(t, engine.MsgError, w.severity)
	assert.Equal(t, "translator", w.loc.Section)
	assert.Equal(t, "bad opcode 7", w.text)
}

func TestLogger_WarnfAndInfofSeverities(t *testing.T) {
	var w recordingWriter
	l := New(&w, "lazy")

	l.Warnf("slow function")
	assert.Equal(t, engine.MsgWarning, w.severity)

	l.Infof("compiled")
	assert.Equal(t, engine.MsgInformation, w.severity)
}

func TestLogger_WithNoWriterDoesNotPanic(t *testing.T) {
	l := New(nil, "demo")
	assert.NotPanics(t, func() {
		l.Errorf("no sink attached")
	})
}

func TestLogger_SetWriterRebindsSink(t *testing.T) {
	var w recordingWriter
	l := New(nil, "demo")
	l.SetWriter(&w)

	l.Infof("now routed")
	assert.Equal(t, 1, w.calls)
}
