package sse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Frame is a single decoded event.
type Frame struct {
	Event string
	Data  json.RawMessage
}

// Decode unmarshals the frame data into v.
func (f Frame) Decode(v any) error {
	return json.Unmarshal(f.Data, v)
}

// Terminal reports whether the frame ends a stream.
func (f Frame) Terminal() bool {
	return f.Event == EventComplete || f.Event == EventError
}

// Fatal reports whether the frame signals failure. An error event is fatal. For streams
// that omit the event line, a bare {message} payload without a level is fatal when the
// message mentions "error" or "failed".
func (f Frame) Fatal() bool {
	if f.Event == EventError {
		return true
	}

	var probe struct {
		Level   *string `json:"level"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(f.Data, &probe); err != nil {
		return false
	}
	if probe.Level != nil || probe.Message == nil {
		return false
	}

	msg := strings.ToLower(*probe.Message)
	return strings.Contains(msg, "error") || strings.Contains(msg, "failed")
}

// Reader splits an event stream into frames. It owns its buffer, so partial lines
// spanning network reads are held until their newline arrives.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next complete frame. Comment lines and frames without data are skipped.
// Frames without an event line are named "message". At the end of the stream Next returns
// io.EOF; a trailing frame without its blank-line terminator is discarded.
func (r *Reader) Next() (Frame, error) {
	var (
		event string
		data  bytes.Buffer
		lines int
	)

	for {
		line, err := r.r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return Frame{}, err
		}
		atEOF := err != nil

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if lines > 0 {
				if event == "" {
					event = "message"
				}
				return Frame{Event: event, Data: json.RawMessage(data.Bytes())}, nil
			}
			event = ""
			if atEOF {
				return Frame{}, io.EOF
			}
			continue
		}

		if atEOF {
			return Frame{}, io.EOF
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			event = value
		case "data":
			if lines > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			lines++
		}
	}
}
