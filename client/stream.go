package client

import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lumenlabs/interactions-go/interaction"
)

// Stream is a finite, non-restartable sequence of interaction stream
// events, pulled one at a time. Events arrive in emission order; the stream
// never reorders. A Complete or Error chunk is terminal.
//
// Example:
//
//	stream, err := c.Stream(ctx, req)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//
//	for ev := range stream.Events() {
//	    if delta, ok := ev.Chunk.(interaction.DeltaChunk); ok {
//	        if t, ok := delta.Delta.(interaction.TextContent); ok {
//	            fmt.Print(t.Text)
//	        }
//	    }
//	}
//	if err := stream.Err(); err != nil {
//	    return err
//	}
//	resp, err := stream.Response()
type Stream struct {
	scanner *sseScanner
	body    io.Closer
	codec   *interaction.Codec
	logger  *slog.Logger
	debug   bool

	requestID string

	stall         time.Duration
	stallTimer    *time.Timer
	closedByStall atomic.Bool

	cur          interaction.StreamEvent
	lastID       string
	err          error
	done         bool
	terminalSeen bool

	acc *Accumulator
}

func newStream(body io.ReadCloser, codec *interaction.Codec, logger *slog.Logger, debug bool, requestID string, stall time.Duration) *Stream {
	s := &Stream{
		scanner:   newSSEScanner(body),
		body:      body,
		codec:     codec,
		logger:    logger,
		debug:     debug,
		requestID: requestID,
		stall:     stall,
		acc:       NewAccumulator(),
	}
	if stall > 0 {
		s.stallTimer = time.AfterFunc(stall, func() {
			s.closedByStall.Store(true)
			_ = body.Close()
		})
	}
	return s
}

// Next advances to the next event, returning false when the stream is
// exhausted or failed. After a terminal chunk Next returns false on the
// following call.
func (s *Stream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if s.stallTimer != nil {
		s.stallTimer.Reset(s.stall)
	}

	ev, err := s.scanner.Next()
	if err != nil {
		s.stopTimer()
		s.done = true
		switch {
		case err == io.EOF && s.terminalSeen:
			// Clean end of stream.
		case s.closedByStall.Load():
			s.err = &TransportError{Op: "stream", Timeout: true, Cause: err}
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			s.err = &TransportError{Op: "stream", Truncated: true, Cause: io.ErrUnexpectedEOF}
		default:
			s.err = &TransportError{Op: "stream", Cause: err}
		}
		return false
	}

	if s.debug {
		logPayload(s.logger, "stream event", s.requestID, ev.data)
	}

	chunk, decErr := s.codec.DecodeChunk(ev.data)
	if decErr != nil {
		if s.codec.Strict {
			s.stopTimer()
			s.done = true
			s.err = decErr
			return false
		}
		// A malformed frame becomes a parse-kind chunk; the stream
		// itself continues.
		var de *interaction.DecodeError
		msg := decErr.Error()
		if errors.As(decErr, &de) && de.Cause != nil {
			msg = de.Cause.Error()
		}
		chunk = interaction.ParseErrorChunk{Message: msg, Raw: append([]byte(nil), ev.data...)}
	}

	if chunk.Terminal() {
		s.terminalSeen = true
		s.stopTimer()
	}

	s.cur = interaction.StreamEvent{Chunk: chunk, EventID: ev.id}
	if ev.id != "" {
		s.lastID = ev.id
	}
	s.acc.Add(s.cur)
	return true
}

// Current returns the event Next advanced to.
func (s *Stream) Current() interaction.StreamEvent {
	return s.cur
}

// Events returns a single-use iterator over the remaining events.
func (s *Stream) Events() iter.Seq[interaction.StreamEvent] {
	return func(yield func(interaction.StreamEvent) bool) {
		for s.Next() {
			if !yield(s.cur) {
				return
			}
		}
	}
}

// Err returns the failure that ended the stream, nil after a clean
// terminal chunk.
func (s *Stream) Err() error {
	return s.err
}

// LastEventID returns the identifier of the most recent event that carried
// one. Pass it to Client.Resume to continue a dropped stream.
func (s *Stream) LastEventID() string {
	return s.lastID
}

// Close releases the underlying connection. Closing mid-stream abandons the
// in-flight sequence; events already consumed remain valid.
func (s *Stream) Close() error {
	s.stopTimer()
	return s.body.Close()
}

// Response returns the accumulated interaction, equivalent to what a
// single-shot call would have produced. Call it after consuming the stream.
func (s *Stream) Response() (*interaction.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.acc.Response()
}

func (s *Stream) stopTimer() {
	if s.stallTimer != nil {
		s.stallTimer.Stop()
	}
}
