// Package interaction defines the data model for one exchange with the
// service: requests and their builder, responses, content items, and stream
// chunks, together with the codec that maps them to the wire JSON.
package interaction

import "encoding/json"

// Content is a single item of interaction input or output.
//
// The set of kinds the service emits grows over time. Kinds this package does
// not know about decode into UnknownContent instead of failing, and re-encode
// to the exact JSON that was received. See Codec for the decoding rules.
type Content interface {
	// Kind returns the wire discriminant for this content item,
	// e.g. "text" or "function_call".
	Kind() string

	contentItem()
}

// TextContent is plain model or user text.
type TextContent struct {
	Text string
}

// ThoughtContent is a summarized reasoning trace emitted by the model.
type ThoughtContent struct {
	Text      string
	Signature string
}

// FunctionCall is a request from the model to execute a caller-supplied
// function. ID is the identity token that joins the call to its eventual
// FunctionResult; results are never matched by position.
type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

// FunctionResult carries the outcome of executing a FunctionCall back to the
// model. Exactly one of Result and Error should be set; an Error result is a
// normal turn the model can react to, not a client-side failure.
type FunctionResult struct {
	CallID string
	Name   string
	Result any
	Error  string
}

// Blob is inline binary data with its media type. Data marshals as base64.
type Blob struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// ImageContent is an inline or referenced image.
type ImageContent struct {
	Image Blob
}

// AudioContent is an inline or referenced audio clip.
type AudioContent struct {
	Audio Blob
}

// DocumentContent is an inline or referenced document, such as a PDF.
type DocumentContent struct {
	Document Blob
}

// SearchCall records a server-side web search the model issued.
type SearchCall struct {
	Queries []string
}

// SearchHit is one result of a server-side search.
type SearchHit struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// SearchResult carries the results of a SearchCall.
type SearchResult struct {
	Results []SearchHit
}

// URLFetchCall records a server-side URL fetch the model issued.
type URLFetchCall struct {
	URLs []string
}

// URLFetchResult carries the outcome of a URLFetchCall.
// Status uses the service's SCREAMING_CASE vocabulary, e.g.
// "URL_FETCH_STATUS_OK".
type URLFetchResult struct {
	URL     string
	Status  string
	Content string
}

// CodeExecutionCall records server-side code the model asked to run.
// Language uses the service's SCREAMING_CASE vocabulary, e.g. "PYTHON".
type CodeExecutionCall struct {
	Language string
	Code     string
}

// CodeExecutionResult carries the outcome of a CodeExecutionCall.
// Outcome uses the service's SCREAMING_CASE vocabulary, e.g. "OUTCOME_OK".
type CodeExecutionResult struct {
	Outcome string
	Output  string
}

// UnknownContent preserves a content item whose kind this package does not
// recognize. RawKind holds the original discriminant and Raw the full payload
// as received, so re-encoding is lossless.
type UnknownContent struct {
	RawKind string
	Raw     json.RawMessage
}

func (TextContent) Kind() string         { return "text" }
func (ThoughtContent) Kind() string      { return "thought" }
func (FunctionCall) Kind() string        { return "function_call" }
func (FunctionResult) Kind() string      { return "function_result" }
func (ImageContent) Kind() string        { return "image" }
func (AudioContent) Kind() string        { return "audio" }
func (DocumentContent) Kind() string     { return "document" }
func (SearchCall) Kind() string          { return "search_call" }
func (SearchResult) Kind() string        { return "search_result" }
func (URLFetchCall) Kind() string        { return "url_fetch_call" }
func (URLFetchResult) Kind() string      { return "url_fetch_result" }
func (CodeExecutionCall) Kind() string   { return "code_execution_call" }
func (CodeExecutionResult) Kind() string { return "code_execution_result" }
func (c UnknownContent) Kind() string    { return c.RawKind }

func (TextContent) contentItem()         {}
func (ThoughtContent) contentItem()      {}
func (FunctionCall) contentItem()        {}
func (FunctionResult) contentItem()      {}
func (ImageContent) contentItem()        {}
func (AudioContent) contentItem()        {}
func (DocumentContent) contentItem()     {}
func (SearchCall) contentItem()          {}
func (SearchResult) contentItem()        {}
func (URLFetchCall) contentItem()        {}
func (URLFetchResult) contentItem()      {}
func (CodeExecutionCall) contentItem()   {}
func (CodeExecutionResult) contentItem() {}
func (UnknownContent) contentItem()      {}
