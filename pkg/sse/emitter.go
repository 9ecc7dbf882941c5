package sse

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Emitter serializes events onto a single HTTP response.
// Each frame is written whole under a mutex so concurrent emitters never interleave.
// After a terminal event, or once a write fails, further emits are dropped.
type Emitter struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	rc     *http.ResponseController
	logger *slog.Logger
	closed bool
}

// NewEmitter writes the stream headers with the given status and returns an Emitter.
// The response write deadline is cleared so long-running streams outlive the server WriteTimeout.
func NewEmitter(w http.ResponseWriter, status int, logger *slog.Logger) *Emitter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.WriteHeader(status)
	_ = rc.Flush()

	return &Emitter{
		w:      w,
		rc:     rc,
		logger: logger.With("system", "sse"),
	}
}

// Log emits a log event.
func (e *Emitter) Log(level Level, message string) {
	e.emit(EventLog, LogData{Level: level, Message: message}, false)
}

// Info emits an info-level log event.
func (e *Emitter) Info(format string, args ...any) {
	e.Log(LevelInfo, fmt.Sprintf(format, args...))
}

// Success emits a success-level log event.
func (e *Emitter) Success(format string, args ...any) {
	e.Log(LevelSuccess, fmt.Sprintf(format, args...))
}

// Error emits an error-level log event. It does not end the stream; use Fail for that.
func (e *Emitter) Error(format string, args ...any) {
	e.Log(LevelError, fmt.Sprintf(format, args...))
}

// Progress emits a progress event. An empty step is omitted from the payload.
func (e *Emitter) Progress(current, total int, step string) {
	e.emit(EventProgress, ProgressData{Current: current, Total: total, Step: step}, false)
}

// Complete emits the terminal success event and closes the stream.
func (e *Emitter) Complete(payload any) {
	e.emit(EventComplete, payload, true)
}

// Fail emits the terminal error event and closes the stream.
func (e *Emitter) Fail(message string) {
	e.emit(EventError, ErrorData{Message: message}, true)
}

// Closed reports whether the stream has ended or the client has gone away.
func (e *Emitter) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Emitter) emit(event string, data any, terminal bool) {
	frame, err := Encode(event, data)
	if err != nil {
		e.logger.Error("event dropped", "event", event, "error", err)
		if !terminal {
			return
		}
		// a terminal event must still end the stream
		event = EventError
		frame, _ = Encode(EventError, ErrorData{Message: "response encoding failed"})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	if terminal {
		e.closed = true
	}

	if _, err := e.w.Write(frame); err != nil {
		e.closed = true
		e.logger.Debug("client disconnected", "event", event, "error", err)
		return
	}

	if err := e.rc.Flush(); err != nil {
		e.closed = true
		e.logger.Debug("flush failed", "event", event, "error", err)
	}
}
