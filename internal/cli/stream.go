package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/JaimeStill/scout/pkg/sse"
)

// ErrStreamFailed reports a stream that ended in a fatal event or without a terminal one.
var ErrStreamFailed = errors.New("stream failed")

func stream(opts *options, req *http.Request, out io.Writer) error {
	req.Header.Set("Accept", "text/event-stream")
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	resp, err := opts.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mt != "text/event-stream" {
		return responseError(resp)
	}

	return Render(resp.Body, out)
}

// responseError reads a JSON {"error"} body from a response that opened no stream.
func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("%w: %s", ErrStreamFailed, resp.Status)
	}
	return fmt.Errorf("%w: %s: %s", ErrStreamFailed, resp.Status, body.Error)
}

// Render writes each frame of an event stream to out as a line of text and the
// complete payload as indented JSON. It returns ErrStreamFailed when the stream
// signals failure or ends before a terminal event.
func Render(r io.Reader, out io.Writer) error {
	reader := sse.NewReader(r)

	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: stream ended without a result", ErrStreamFailed)
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}

		if frame.Fatal() {
			var data sse.ErrorData
			_ = frame.Decode(&data)
			fmt.Fprintf(out, "error: %s\n", data.Message)
			return fmt.Errorf("%w: %s", ErrStreamFailed, data.Message)
		}

		switch frame.Event {
		case sse.EventProgress:
			var p sse.ProgressData
			if err := frame.Decode(&p); err == nil {
				if p.Step != "" {
					fmt.Fprintf(out, "[%d/%d] %s\n", p.Current, p.Total, p.Step)
				} else {
					fmt.Fprintf(out, "[%d/%d]\n", p.Current, p.Total)
				}
			}
		case sse.EventComplete:
			var payload any
			if err := frame.Decode(&payload); err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		default:
			var l sse.LogData
			if err := frame.Decode(&l); err == nil && l.Message != "" {
				if l.Level == "" {
					l.Level = sse.LevelInfo
				}
				fmt.Fprintf(out, "%-7s %s\n", l.Level, l.Message)
			}
		}
	}
}
