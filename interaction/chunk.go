package interaction

import (
	"encoding/json"
	"fmt"
)

// Chunk is one lifecycle payload on an interaction event stream. Chunks the
// service emits that this package does not recognize decode into
// UnknownChunk, mirroring UnknownContent.
type Chunk interface {
	// EventType returns the wire discriminant, e.g. "content.delta".
	EventType() string

	// Terminal reports whether no further chunks follow this one.
	Terminal() bool

	chunkPayload()
}

// StartChunk opens a stream and announces the interaction's identity.
type StartChunk struct {
	ID    string
	Model string
}

// StatusChunk reports a status change mid-stream.
type StatusChunk struct {
	Status Status
}

// ContentStartChunk opens an output slot. Subsequent DeltaChunks for the
// same index append into that slot until a ContentStopChunk closes it.
type ContentStartChunk struct {
	Index       int
	ContentKind string
}

// DeltaChunk carries an incremental piece of the output item at Index.
type DeltaChunk struct {
	Index int
	Delta Content
}

// ContentStopChunk closes the output slot at Index.
type ContentStopChunk struct {
	Index int
}

// CompleteChunk terminates a successful stream, carrying the metadata that
// the assembled response needs.
type CompleteChunk struct {
	ID     string
	Status Status
	Usage  *Usage
}

// ErrorChunk terminates a failed stream.
type ErrorChunk struct {
	Code    int
	Status  string
	Message string
}

// ParseErrorChunk stands in for a single stream frame whose payload could
// not be decoded. It is synthesized locally, never received, and does not
// terminate the stream.
type ParseErrorChunk struct {
	Message string
	Raw     json.RawMessage
}

// UnknownChunk preserves a stream payload whose event type this package does
// not recognize.
type UnknownChunk struct {
	RawType string
	Raw     json.RawMessage
}

func (StartChunk) EventType() string        { return "interaction.start" }
func (StatusChunk) EventType() string       { return "interaction.status" }
func (ContentStartChunk) EventType() string { return "content.start" }
func (DeltaChunk) EventType() string        { return "content.delta" }
func (ContentStopChunk) EventType() string  { return "content.stop" }
func (CompleteChunk) EventType() string     { return "interaction.complete" }
func (ErrorChunk) EventType() string        { return "error" }
func (ParseErrorChunk) EventType() string   { return "parse_error" }
func (c UnknownChunk) EventType() string    { return c.RawType }

func (StartChunk) Terminal() bool        { return false }
func (StatusChunk) Terminal() bool       { return false }
func (ContentStartChunk) Terminal() bool { return false }
func (DeltaChunk) Terminal() bool        { return false }
func (ContentStopChunk) Terminal() bool  { return false }
func (CompleteChunk) Terminal() bool     { return true }
func (ErrorChunk) Terminal() bool        { return true }
func (ParseErrorChunk) Terminal() bool   { return false }
func (UnknownChunk) Terminal() bool      { return false }

func (StartChunk) chunkPayload()        {}
func (StatusChunk) chunkPayload()       {}
func (ContentStartChunk) chunkPayload() {}
func (DeltaChunk) chunkPayload()        {}
func (ContentStopChunk) chunkPayload()  {}
func (CompleteChunk) chunkPayload()     {}
func (ErrorChunk) chunkPayload()        {}
func (ParseErrorChunk) chunkPayload()   {}
func (UnknownChunk) chunkPayload()      {}

// StreamEvent pairs a chunk with the resumption position the service
// attached to it, if any. Passing EventID to a resume call replays the
// stream strictly after this event.
type StreamEvent struct {
	Chunk   Chunk
	EventID string
}

type chunkWire struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Model   string          `json:"model,omitempty"`
	Status  Status          `json:"status,omitempty"`
	Index   *int            `json:"index,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Delta   json.RawMessage `json:"delta,omitempty"`
	Usage   *Usage          `json:"usage,omitempty"`
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DecodeChunk decodes one stream payload.
func (c *Codec) DecodeChunk(data []byte) (Chunk, error) {
	var w chunkWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{What: "stream chunk", Raw: cloneRaw(data), Cause: err}
	}

	index := 0
	if w.Index != nil {
		index = *w.Index
	}

	switch w.Type {
	case "interaction.start":
		return StartChunk{ID: w.ID, Model: w.Model}, nil
	case "interaction.status":
		if w.Status != "" && !w.Status.Known() && !c.strict() {
			c.logger().Warn("unrecognized interaction status, preserving value",
				"status", string(w.Status))
		}
		if w.Status != "" && !w.Status.Known() && c.strict() {
			return nil, &DecodeError{
				What:  "stream chunk",
				Raw:   cloneRaw(data),
				Cause: errUnrecognized("status", string(w.Status)),
			}
		}
		return StatusChunk{Status: w.Status}, nil
	case "content.start":
		return ContentStartChunk{Index: index, ContentKind: w.Kind}, nil
	case "content.delta":
		delta, err := c.DecodeContent(w.Delta)
		if err != nil {
			return nil, err
		}
		return DeltaChunk{Index: index, Delta: delta}, nil
	case "content.stop":
		return ContentStopChunk{Index: index}, nil
	case "interaction.complete":
		return CompleteChunk{ID: w.ID, Status: w.Status, Usage: w.Usage}, nil
	case "error":
		return ErrorChunk{Code: w.Code, Status: string(w.Status), Message: w.Message}, nil
	}

	if c.strict() {
		return nil, &DecodeError{
			What:  "stream chunk",
			Raw:   cloneRaw(data),
			Cause: errUnrecognized("stream event type", w.Type),
		}
	}
	c.logger().Warn("unrecognized stream event type, preserving raw payload",
		"type", w.Type)
	return UnknownChunk{RawType: w.Type, Raw: cloneRaw(data)}, nil
}

// MarshalJSON implements json.Marshaler.
func (s StartChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkWire{Type: s.EventType(), ID: s.ID, Model: s.Model})
}

// MarshalJSON implements json.Marshaler.
func (s StatusChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkWire{Type: s.EventType(), Status: s.Status})
}

// MarshalJSON implements json.Marshaler.
func (s ContentStartChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkWire{Type: s.EventType(), Index: &s.Index, Kind: s.ContentKind})
}

// MarshalJSON implements json.Marshaler.
func (d DeltaChunk) MarshalJSON() ([]byte, error) {
	delta, err := json.Marshal(d.Delta)
	if err != nil {
		return nil, err
	}
	return json.Marshal(chunkWire{Type: d.EventType(), Index: &d.Index, Delta: delta})
}

// MarshalJSON implements json.Marshaler.
func (s ContentStopChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkWire{Type: s.EventType(), Index: &s.Index})
}

// MarshalJSON implements json.Marshaler.
func (c CompleteChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkWire{Type: c.EventType(), ID: c.ID, Status: c.Status, Usage: c.Usage})
}

// MarshalJSON implements json.Marshaler.
func (e ErrorChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkWire{Type: e.EventType(), Code: e.Code, Status: Status(e.Status), Message: e.Message})
}

// MarshalJSON re-emits the payload exactly as it was received.
func (u UnknownChunk) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: u.RawType})
	}
	return append(json.RawMessage(nil), u.Raw...), nil
}

func errUnrecognized(what, value string) error {
	return fmt.Errorf("unrecognized %s %q", what, value)
}
