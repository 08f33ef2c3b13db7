package interaction

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a Turn.
type Role string

// Role constants. The service uses lowercase role names and calls the
// assistant side "model".
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-attributed message in a multi-turn history.
type Turn struct {
	Role    Role      `json:"role"`
	Content []Content `json:"content"`
}

// UserTurn creates a user turn with a single text item.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Content: []Content{TextContent{Text: text}}}
}

// ModelTurn creates a model turn with a single text item.
func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Content: []Content{TextContent{Text: text}}}
}

// ToolDecl declares a function the model may call. Parameters is a JSON
// Schema describing the function's arguments.
type ToolDecl struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ThinkingLevel controls how much reasoning the model performs before
// answering. The service spells these SCREAMING_CASE.
type ThinkingLevel string

// Thinking levels.
const (
	ThinkingLow    ThinkingLevel = "LOW"
	ThinkingMedium ThinkingLevel = "MEDIUM"
	ThinkingHigh   ThinkingLevel = "HIGH"
)

// Modality selects an output modality. The service spells these
// SCREAMING_CASE.
type Modality string

// Output modalities.
const (
	ModalityText  Modality = "TEXT"
	ModalityImage Modality = "IMAGE"
	ModalityAudio Modality = "AUDIO"
)

// GenerationConfig holds optional sampling and output parameters.
// Nil pointer fields are omitted from the wire request, letting the service
// apply its defaults.
type GenerationConfig struct {
	Temperature     *float64      `json:"temperature,omitempty"`
	TopP            *float64      `json:"topP,omitempty"`
	TopK            *int          `json:"topK,omitempty"`
	MaxOutputTokens *int          `json:"maxOutputTokens,omitempty"`
	Seed            *int          `json:"seed,omitempty"`
	StopSequences   []string      `json:"stopSequences,omitempty"`
	ThinkingLevel   ThinkingLevel `json:"thinkingLevel,omitempty"`
	Modalities      []Modality    `json:"responseModalities,omitempty"`
}

// AgentConfig carries configuration that only applies when the request
// targets an agent rather than a bare model.
type AgentConfig struct {
	Version   string            `json:"version,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Request is a validated, immutable request to the service. Construct it
// through NewRequest; a Request that violates the composition rules cannot
// be built.
type Request struct {
	// Exactly one of Model and Agent is set.
	Model string
	Agent string

	AgentConfig *AgentConfig
	System      string

	// Exactly one of Text, Turns and Content is set.
	Text    string
	Turns   []Turn
	Content []Content

	Tools      []ToolDecl
	Generation *GenerationConfig

	// PreviousInteractionID chains this request to a stored interaction.
	PreviousInteractionID string

	// Store is nil when the caller did not touch persistence; the service
	// default is to store.
	Store      *bool
	Background bool

	// Timeout bounds the network call for this request. Zero means the
	// client default. Not part of the wire body.
	Timeout time.Duration
}

// requestWire is the literal JSON body. The input field is polymorphic:
// a plain string, a turn array, or a content-item array.
type requestWire struct {
	Model                 string            `json:"model,omitempty"`
	Agent                 string            `json:"agent,omitempty"`
	AgentConfig           *AgentConfig      `json:"agentConfig,omitempty"`
	SystemInstruction     string            `json:"systemInstruction,omitempty"`
	Input                 any               `json:"input"`
	Tools                 []toolGroupWire   `json:"tools,omitempty"`
	GenerationConfig      *GenerationConfig `json:"generationConfig,omitempty"`
	PreviousInteractionID string            `json:"previousInteractionId,omitempty"`
	Store                 *bool             `json:"store,omitempty"`
	Background            bool              `json:"background,omitempty"`
}

// toolGroupWire reflects the service's extra nesting level: function
// declarations sit inside a tool group object.
type toolGroupWire struct {
	FunctionDeclarations []ToolDecl `json:"functionDeclarations"`
}

// MarshalJSON implements json.Marshaler.
func (r *Request) MarshalJSON() ([]byte, error) {
	w := requestWire{
		Model:                 r.Model,
		Agent:                 r.Agent,
		AgentConfig:           r.AgentConfig,
		SystemInstruction:     r.System,
		GenerationConfig:      r.Generation,
		PreviousInteractionID: r.PreviousInteractionID,
		Store:                 r.Store,
		Background:            r.Background,
	}

	switch {
	case len(r.Turns) > 0:
		w.Input = r.Turns
	case len(r.Content) > 0:
		w.Input = r.Content
	default:
		w.Input = r.Text
	}

	if len(r.Tools) > 0 {
		w.Tools = []toolGroupWire{{FunctionDeclarations: r.Tools}}
	}

	return json.Marshal(w)
}

// Clone returns a copy of the request that can be mutated and resubmitted
// without affecting the original.
func (r *Request) Clone() *Request {
	clone := *r
	if r.AgentConfig != nil {
		ac := *r.AgentConfig
		if r.AgentConfig.Variables != nil {
			ac.Variables = make(map[string]string, len(r.AgentConfig.Variables))
			for k, v := range r.AgentConfig.Variables {
				ac.Variables[k] = v
			}
		}
		clone.AgentConfig = &ac
	}
	if r.Generation != nil {
		gc := *r.Generation
		gc.StopSequences = append([]string(nil), r.Generation.StopSequences...)
		gc.Modalities = append([]Modality(nil), r.Generation.Modalities...)
		clone.Generation = &gc
	}
	if r.Store != nil {
		s := *r.Store
		clone.Store = &s
	}
	clone.Turns = append([]Turn(nil), r.Turns...)
	clone.Content = append([]Content(nil), r.Content...)
	clone.Tools = append([]ToolDecl(nil), r.Tools...)
	return &clone
}
