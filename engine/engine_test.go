package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageType_String(t *testing.T) {
	assert.Equal(t, "ERROR", MsgError.String())
	assert.Equal(t, "WARN", MsgWarning.String())
	assert.Equal(t, "INFO", MsgInformation.String())
	assert.Equal(t, "UNKNOWN", MessageType(99).String())
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "", Location{}.String())
	assert.Equal(t, "foo.as:3:4", Location{Section: "foo.as", Row: 3, Col: 4}.String())
}

type recordingWriter struct {
	loc      Location
	severity MessageType
	text     string
}

func (w *recordingWriter) WriteMessage(loc Location, severity MessageType, text string) {
	w.loc, w.severity, w.text = loc, severity, text
}

func TestMessageWriter_ReceivesWhatItWasHanded(t *testing.T) {
	var w recordingWriter
	var writer MessageWriter = &w
	writer.WriteMessage(Location{Section: "a"}, MsgWarning, "hello")
	assert.Equal(t, "a", w.loc.Section)
	assert.Equal(t, MsgWarning, w.severity)
	assert.Equal(t, "hello", w.text)
}
