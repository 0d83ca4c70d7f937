// Package stream implements the server-to-client incremental text protocol:
// an SSE-shaped emitter on the server side and a tolerant consumer on the
// client side.
//
// Wire format, owned by this package: optional "event: <kind>" line followed
// by "data: <json>" and a blank line. A data line with no preceding event
// line is a token event.
package stream

import "fmt"

// Kind tags a stream event.
type Kind string

// Event kinds. Exactly one done or error event terminates a stream.
const (
	KindToken Kind = "token"
	KindDone  Kind = "done"
	KindError Kind = "error"
)

// Event is the tagged union carried by the stream.
type Event struct {
	Kind     Kind
	Token    string // KindToken: the text increment
	FullText string // KindDone: the accumulated text
	Length   int    // KindDone: character count of FullText
	Message  string // KindError
}

// tokenPayload is the wire shape of a token event's data line.
type tokenPayload struct {
	Token string `json:"token"`
}

// donePayload is the wire shape of a done event's data line.
type donePayload struct {
	FullText       string `json:"fullText"`
	CharacterCount int    `json:"characterCount"`
}

// errorPayload is the wire shape of an error event's data line.
type errorPayload struct {
	Message string `json:"message"`
}

// ProtocolError indicates the consumer gave up on a malformed stream.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("stream protocol error: %s", e.Message)
}

// RemoteError carries a server-reported error event.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("stream error from server: %s", e.Message)
}
