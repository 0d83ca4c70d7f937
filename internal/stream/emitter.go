package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Emitter writes the event stream. Token events go out immediately, with no
// buffering beyond what the transport requires; exactly one done or error
// event terminates the stream, after which further writes are ignored.
type Emitter struct {
	w          io.Writer
	flusher    http.Flusher
	terminated bool
}

// NewEmitter prepares an http.ResponseWriter for event streaming.
func NewEmitter(w http.ResponseWriter) (*Emitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported by transport")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &Emitter{w: w, flusher: flusher}, nil
}

// NewWriterEmitter wraps a plain writer, for tests and non-HTTP transports.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Token writes a text increment. Token is the default event kind, so no
// "event:" line is written.
func (e *Emitter) Token(text string) error {
	if e.terminated {
		return nil
	}
	return e.write("", tokenPayload{Token: text})
}

// Done terminates the stream with the full accumulated text.
func (e *Emitter) Done(fullText string) error {
	if e.terminated {
		return nil
	}
	e.terminated = true
	return e.write("done", donePayload{
		FullText:       fullText,
		CharacterCount: len([]rune(fullText)),
	})
}

// Error terminates the stream with a failure message.
func (e *Emitter) Error(message string) error {
	if e.terminated {
		return nil
	}
	e.terminated = true
	return e.write("error", errorPayload{Message: message})
}

func (e *Emitter) write(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if event != "" {
		if _, err := fmt.Fprintf(e.w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
