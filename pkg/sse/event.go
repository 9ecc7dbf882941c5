// Package sse writes and reads Server-Sent Events progress streams.
//
// A stream carries log, progress, and terminal events framed as
//
//	event: <name>
//	data: <json>
//
// followed by a blank line. Exactly one terminal event (complete or error) ends a stream.
package sse

import (
	"encoding/json"
	"fmt"
)

// Event names.
const (
	EventLog      = "log"
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

// Level classifies a log event.
type Level string

// Log levels.
const (
	LevelInfo    Level = "info"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// LogData is the payload of a log event.
type LogData struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// ProgressData is the payload of a progress event.
type ProgressData struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Step    string `json:"step,omitempty"`
}

// ErrorData is the payload of a terminal error event.
type ErrorData struct {
	Message string `json:"message"`
}

// Encode renders a single event frame.
func Encode(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event, err)
	}

	frame := make([]byte, 0, len(event)+len(payload)+16)
	frame = append(frame, "event: "...)
	frame = append(frame, event...)
	frame = append(frame, "\ndata: "...)
	frame = append(frame, payload...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}
