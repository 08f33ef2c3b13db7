package interaction

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Codec translates between the in-memory data model and the service's wire
// JSON. It is the single place that absorbs the wire format's irregularities:
// content kinds are snake_case, lifecycle events are dotted, execution
// outcomes are SCREAMING_CASE, and some kinds nest their payload one level
// below the discriminant.
//
// The zero value is ready to use: unrecognized discriminants are preserved as
// Unknown* values and reported at warning level through the logger.
type Codec struct {
	// Strict turns unrecognized discriminants into decode failures instead
	// of Unknown* values. Intended for development against a presumed-frozen
	// protocol version; leave false for forward compatibility.
	Strict bool

	// Logger receives a warning for every unrecognized discriminant.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

func (c *Codec) logger() *slog.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Codec) strict() bool {
	return c != nil && c.Strict
}

// DecodeError reports a response or stream payload that could not be parsed
// at all. An unrecognized discriminant is not a DecodeError; it decodes into
// an Unknown* value unless Codec.Strict is set.
type DecodeError struct {
	What  string
	Raw   json.RawMessage
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.What, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Wire shapes for the known content kinds.

type textWire struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type thoughtWire struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Signature string `json:"signature,omitempty"`
}

type functionCallWire struct {
	Type string         `json:"type"`
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type functionResultWire struct {
	Type   string `json:"type"`
	CallID string `json:"callId,omitempty"`
	Name   string `json:"name,omitempty"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Media kinds nest the blob one level below the discriminant.

type imageWire struct {
	Type  string `json:"type"`
	Image Blob   `json:"image"`
}

type audioWire struct {
	Type  string `json:"type"`
	Audio Blob   `json:"audio"`
}

type documentWire struct {
	Type     string `json:"type"`
	Document Blob   `json:"document"`
}

type searchCallWire struct {
	Type    string   `json:"type"`
	Queries []string `json:"queries,omitempty"`
}

type searchResultWire struct {
	Type    string      `json:"type"`
	Results []SearchHit `json:"results,omitempty"`
}

type urlFetchCallWire struct {
	Type string   `json:"type"`
	URLs []string `json:"urls,omitempty"`
}

type urlFetchResultWire struct {
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
	Status  string `json:"status,omitempty"`
	Content string `json:"content,omitempty"`
}

type codeExecutionCallWire struct {
	Type     string `json:"type"`
	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`
}

type codeExecutionResultWire struct {
	Type    string `json:"type"`
	Outcome string `json:"outcome,omitempty"`
	Output  string `json:"output,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t TextContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(textWire{Type: t.Kind(), Text: t.Text})
}

// MarshalJSON implements json.Marshaler.
func (t ThoughtContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(thoughtWire{Type: t.Kind(), Text: t.Text, Signature: t.Signature})
}

// MarshalJSON implements json.Marshaler.
func (f FunctionCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(functionCallWire{Type: f.Kind(), ID: f.ID, Name: f.Name, Args: f.Args})
}

// MarshalJSON implements json.Marshaler.
func (f FunctionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(functionResultWire{
		Type:   f.Kind(),
		CallID: f.CallID,
		Name:   f.Name,
		Result: f.Result,
		Error:  f.Error,
	})
}

// MarshalJSON implements json.Marshaler.
func (i ImageContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageWire{Type: i.Kind(), Image: i.Image})
}

// MarshalJSON implements json.Marshaler.
func (a AudioContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(audioWire{Type: a.Kind(), Audio: a.Audio})
}

// MarshalJSON implements json.Marshaler.
func (d DocumentContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentWire{Type: d.Kind(), Document: d.Document})
}

// MarshalJSON implements json.Marshaler.
func (s SearchCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(searchCallWire{Type: s.Kind(), Queries: s.Queries})
}

// MarshalJSON implements json.Marshaler.
func (s SearchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(searchResultWire{Type: s.Kind(), Results: s.Results})
}

// MarshalJSON implements json.Marshaler.
func (u URLFetchCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(urlFetchCallWire{Type: u.Kind(), URLs: u.URLs})
}

// MarshalJSON implements json.Marshaler.
func (u URLFetchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(urlFetchResultWire{Type: u.Kind(), URL: u.URL, Status: u.Status, Content: u.Content})
}

// MarshalJSON implements json.Marshaler.
func (c CodeExecutionCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(codeExecutionCallWire{Type: c.Kind(), Language: c.Language, Code: c.Code})
}

// MarshalJSON implements json.Marshaler.
func (c CodeExecutionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(codeExecutionResultWire{Type: c.Kind(), Outcome: c.Outcome, Output: c.Output})
}

// MarshalJSON re-emits the payload exactly as it was received.
func (u UnknownContent) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: u.RawKind})
	}
	return append(json.RawMessage(nil), u.Raw...), nil
}

// DecodeContent decodes a single content item. A recognized "type"
// discriminant yields the matching variant; anything else yields
// UnknownContent (or a DecodeError in strict mode).
func (c *Codec) DecodeContent(data []byte) (Content, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &DecodeError{What: "content item", Raw: cloneRaw(data), Cause: err}
	}

	item, ok, err := c.decodeKnownContent(probe.Type, data)
	if err != nil {
		return nil, err
	}
	if ok {
		return item, nil
	}

	if c.strict() {
		return nil, &DecodeError{
			What:  "content item",
			Raw:   cloneRaw(data),
			Cause: fmt.Errorf("unrecognized content kind %q", probe.Type),
		}
	}
	c.logger().Warn("unrecognized content kind, preserving raw payload",
		"kind", probe.Type)
	return UnknownContent{RawKind: probe.Type, Raw: cloneRaw(data)}, nil
}

func (c *Codec) decodeKnownContent(kind string, data []byte) (Content, bool, error) {
	fail := func(err error) (Content, bool, error) {
		return nil, false, &DecodeError{What: "content item", Raw: cloneRaw(data), Cause: err}
	}

	switch kind {
	case "text":
		var w textWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return TextContent{Text: w.Text}, true, nil
	case "thought":
		var w thoughtWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return ThoughtContent{Text: w.Text, Signature: w.Signature}, true, nil
	case "function_call":
		var w functionCallWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return FunctionCall{ID: w.ID, Name: w.Name, Args: w.Args}, true, nil
	case "function_result":
		var w functionResultWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return FunctionResult{CallID: w.CallID, Name: w.Name, Result: w.Result, Error: w.Error}, true, nil
	case "image":
		var w imageWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return ImageContent{Image: w.Image}, true, nil
	case "audio":
		var w audioWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return AudioContent{Audio: w.Audio}, true, nil
	case "document":
		var w documentWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return DocumentContent{Document: w.Document}, true, nil
	case "search_call":
		var w searchCallWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return SearchCall{Queries: w.Queries}, true, nil
	case "search_result":
		var w searchResultWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return SearchResult{Results: w.Results}, true, nil
	case "url_fetch_call":
		var w urlFetchCallWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return URLFetchCall{URLs: w.URLs}, true, nil
	case "url_fetch_result":
		var w urlFetchResultWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return URLFetchResult{URL: w.URL, Status: w.Status, Content: w.Content}, true, nil
	case "code_execution_call":
		var w codeExecutionCallWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return CodeExecutionCall{Language: w.Language, Code: w.Code}, true, nil
	case "code_execution_result":
		var w codeExecutionResultWire
		if err := json.Unmarshal(data, &w); err != nil {
			return fail(err)
		}
		return CodeExecutionResult{Outcome: w.Outcome, Output: w.Output}, true, nil
	}
	return nil, false, nil
}

func (c *Codec) decodeContentList(items []json.RawMessage) ([]Content, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]Content, 0, len(items))
	for _, raw := range items {
		item, err := c.DecodeContent(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func cloneRaw(data []byte) json.RawMessage {
	return append(json.RawMessage(nil), data...)
}
