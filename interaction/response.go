package interaction

import "encoding/json"

// Status is the lifecycle state of an interaction. It is an open enum: the
// service may introduce states this package does not know, and they pass
// through decoding untouched. Use Known to detect them.
type Status string

// Statuses the service currently reports, lowercase on the wire.
const (
	StatusInProgress     Status = "in_progress"
	StatusRequiresAction Status = "requires_action"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
	StatusCancelled      Status = "cancelled"
)

// Known reports whether the status is one this package recognizes.
func (s Status) Known() bool {
	switch s {
	case StatusInProgress, StatusRequiresAction, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Usage is the token metering for one interaction.
type Usage struct {
	InputTokens   int `json:"inputTokens,omitempty"`
	OutputTokens  int `json:"outputTokens,omitempty"`
	ThoughtTokens int `json:"thoughtTokens,omitempty"`
	TotalTokens   int `json:"totalTokens,omitempty"`
}

// ErrorDetail is the service's structured error payload on a failed
// interaction.
type ErrorDetail struct {
	Code    int    `json:"code,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Response is the service's reply to a request, whether obtained single-shot
// or assembled from a stream.
type Response struct {
	// ID is set only when the interaction was stored.
	ID      string
	Model   string
	Status  Status
	Outputs []Content
	Usage   *Usage
	Error   *ErrorDetail
}

type responseWire struct {
	ID      string            `json:"id,omitempty"`
	Model   string            `json:"model,omitempty"`
	Status  Status            `json:"status,omitempty"`
	Outputs []json.RawMessage `json:"outputs,omitempty"`
	Usage   *Usage            `json:"usage,omitempty"`
	Error   *ErrorDetail      `json:"error,omitempty"`
}

// DecodeResponse decodes a full interaction body.
func (c *Codec) DecodeResponse(data []byte) (*Response, error) {
	var w responseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{What: "interaction", Raw: cloneRaw(data), Cause: err}
	}

	outputs, err := c.decodeContentList(w.Outputs)
	if err != nil {
		return nil, err
	}

	if w.Status != "" && !w.Status.Known() {
		if c.strict() {
			return nil, &DecodeError{
				What:  "interaction",
				Raw:   cloneRaw(data),
				Cause: errUnrecognized("status", string(w.Status)),
			}
		}
		c.logger().Warn("unrecognized interaction status, preserving value",
			"status", string(w.Status))
	}

	return &Response{
		ID:      w.ID,
		Model:   w.Model,
		Status:  w.Status,
		Outputs: outputs,
		Usage:   w.Usage,
		Error:   w.Error,
	}, nil
}

// UnmarshalJSON decodes with a default, non-strict codec. Clients with a
// configured codec decode through Codec.DecodeResponse instead.
func (r *Response) UnmarshalJSON(data []byte) error {
	decoded, err := (&Codec{}).DecodeResponse(data)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	w := struct {
		ID      string       `json:"id,omitempty"`
		Model   string       `json:"model,omitempty"`
		Status  Status       `json:"status,omitempty"`
		Outputs []Content    `json:"outputs,omitempty"`
		Usage   *Usage       `json:"usage,omitempty"`
		Error   *ErrorDetail `json:"error,omitempty"`
	}{r.ID, r.Model, r.Status, r.Outputs, r.Usage, r.Error}
	return json.Marshal(w)
}

// Text returns the concatenated text outputs of the response.
func (r *Response) Text() string {
	var out string
	for _, item := range r.Outputs {
		if t, ok := item.(TextContent); ok {
			out += t.Text
		}
	}
	return out
}

// FunctionCalls returns the function calls the model is waiting on.
func (r *Response) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, item := range r.Outputs {
		if fc, ok := item.(FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

// Thoughts returns the reasoning traces in the response, if any.
func (r *Response) Thoughts() []ThoughtContent {
	var thoughts []ThoughtContent
	for _, item := range r.Outputs {
		if t, ok := item.(ThoughtContent); ok {
			thoughts = append(thoughts, t)
		}
	}
	return thoughts
}

// Unrecognized returns output items whose kind this package does not know.
// They are preserved verbatim and re-encode losslessly.
func (r *Response) Unrecognized() []UnknownContent {
	var items []UnknownContent
	for _, item := range r.Outputs {
		if u, ok := item.(UnknownContent); ok {
			items = append(items, u)
		}
	}
	return items
}
