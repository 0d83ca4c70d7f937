package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxParseErrors is how many consecutive malformed data payloads the
// consumer tolerates before giving up. A single dropped byte must not abort
// a long generation, but unbounded tolerance would mask a broken stream.
const DefaultMaxParseErrors = 5

// Callbacks receives parsed events. OnToken gets the running accumulated
// text after each increment, not the increment alone.
type Callbacks struct {
	OnToken func(runningText string)
	OnDone  func(fullText string)
	OnError func(message string)
}

// Consume reads the stream with the default parse-error tolerance.
func Consume(ctx context.Context, r io.ReadCloser, cb Callbacks) (string, error) {
	return ConsumeWithTolerance(ctx, r, cb, DefaultMaxParseErrors)
}

// ConsumeWithTolerance incrementally parses the event stream and dispatches
// callbacks, returning the final full text. Partial lines are buffered
// across reads. More than maxParseErrors consecutive malformed payloads
// raises a ProtocolError; a successful parse resets the count. The reader
// is closed on every exit path, and cancelling ctx promptly releases it
// without further callbacks.
func ConsumeWithTolerance(ctx context.Context, r io.ReadCloser, cb Callbacks, maxParseErrors int) (string, error) {
	defer func() { _ = r.Close() }()

	// Unblock a pending read when the caller goes away.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = r.Close()
		case <-watchDone:
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var running strings.Builder
	kind := KindToken
	parseFailures := 0

	for scanner.Scan() {
		if ctx.Err() != nil {
			return running.String(), ctx.Err()
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			// Blank line ends an event; the kind resets to the default.
			kind = KindToken
			continue
		}
		if after, ok := strings.CutPrefix(line, "event:"); ok {
			kind = Kind(strings.TrimSpace(after))
			continue
		}
		after, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue // comments and unknown fields are ignored
		}

		event, err := parseData(kind, strings.TrimSpace(after))
		if err != nil {
			parseFailures++
			if parseFailures > maxParseErrors {
				return running.String(), &ProtocolError{
					Message: fmt.Sprintf("gave up after %d consecutive malformed events: %v", parseFailures, err),
				}
			}
			continue
		}
		parseFailures = 0

		switch event.Kind {
		case KindToken:
			running.WriteString(event.Token)
			if cb.OnToken != nil {
				cb.OnToken(running.String())
			}
		case KindDone:
			if cb.OnDone != nil {
				cb.OnDone(event.FullText)
			}
			return event.FullText, nil
		case KindError:
			if cb.OnError != nil {
				cb.OnError(event.Message)
			}
			return running.String(), &RemoteError{Message: event.Message}
		}
	}

	if ctx.Err() != nil {
		return running.String(), ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return running.String(), err
	}
	return running.String(), &ProtocolError{Message: "stream ended without a terminal event"}
}

// parseData decodes one data payload under the current event kind.
func parseData(kind Kind, payload string) (Event, error) {
	switch kind {
	case KindToken:
		var p tokenPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: KindToken, Token: p.Token}, nil
	case KindDone:
		var p donePayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: KindDone, FullText: p.FullText, Length: p.CharacterCount}, nil
	case KindError:
		var p errorPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: KindError, Message: p.Message}, nil
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", kind)
	}
}
