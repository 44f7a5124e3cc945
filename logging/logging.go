// Package logging routes the compiler's own diagnostics through the
// host engine's MessageWriter, falling back to the standard
// library's log package when no engine is attached.
package logging

import (
	"fmt"
	"log"

	"github.com/wudi/aseajit/engine"
)

// Logger formats compiler diagnostics and forwards them either to an
// engine-supplied MessageWriter or to the standard logger.
type Logger struct {
	writer  engine.MessageWriter
	section string
	std     *log.Logger
}

// New creates a Logger. writer may be nil, in which case every message
// goes to the standard library logger instead.
// section names the pseudo source location reported to the engine,
// conventionally the compiler's own package name.
func New(writer engine.MessageWriter, section string) *Logger {
	return &Logger{writer: writer, section: section, std: log.Default()}
}

// SetWriter rebinds the engine message sink, used when the facade is
// attached to an engine after construction.
func (l *Logger) SetWriter(w engine.MessageWriter) { l.writer = w }

func (l *Logger) emit(severity engine.MessageType, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if l.writer != nil {
		l.writer.WriteMessage(engine.Location{Section: l.section}, severity, text)
		return
	}
	l.std.Printf("[%s] %s: %s", l.section, severity, text)
}

// Errorf reports a compilation-fatal condition.
func (l *Logger) Errorf(format string, args ...any) { l.emit(engine.MsgError, format, args...) }

// Warnf reports a non-fatal but noteworthy condition.
func (l *Logger) Warnf(format string, args ...any) { l.emit(engine.MsgWarning, format, args...) }

// Infof reports routine progress (a function was compiled, a .so was
// loaded); it applies no filtering of its own.
func (l *Logger) Infof(format string, args ...any) { l.emit(engine.MsgInformation, format, args...) }
