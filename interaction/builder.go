package interaction

import "time"

// BuilderState tags where a RequestBuilder sits in its persistence state
// machine. FirstTurn is the initial state; chaining moves the builder to
// Chained and disabling persistence moves it to StoreDisabled. The two
// terminal states are mutually unreachable: a builder that has chained can
// no longer disable persistence, and vice versa.
type BuilderState int

// Builder states.
const (
	StateFirstTurn BuilderState = iota
	StateChained
	StateStoreDisabled
)

func (s BuilderState) String() string {
	switch s {
	case StateFirstTurn:
		return "first_turn"
	case StateChained:
		return "chained"
	case StateStoreDisabled:
		return "store_disabled"
	}
	return "unknown"
}

// RequestBuilder accumulates configuration and produces a validated Request.
// Single-valued settings replace on repeated calls (last write wins);
// Tools accumulates. The builder has no side effects until Build.
//
// Example:
//
//	req, err := interaction.NewRequest().
//	    Model("m-large").
//	    System("You are terse.").
//	    Text("Summarize the attached report.").
//	    Build()
type RequestBuilder struct {
	state BuilderState

	model       string
	agent       string
	agentConfig *AgentConfig
	system      string

	text    string
	textSet bool
	turns   []Turn
	content []Content

	tools      []ToolDecl
	generation *GenerationConfig

	previousID string
	store      *bool
	background bool
	timeout    time.Duration

	// Set when a state-restricted operation was invoked from the wrong
	// state; surfaced by Build as PersistenceRequired.
	persistenceViolated bool
}

// NewRequest creates a builder in the FirstTurn state.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{state: StateFirstTurn}
}

// State returns the builder's persistence state tag.
func (b *RequestBuilder) State() BuilderState {
	return b.state
}

// Model targets a model by identifier. Mutually exclusive with Agent.
func (b *RequestBuilder) Model(id string) *RequestBuilder {
	b.model = id
	return b
}

// Agent targets a deployed agent by identifier. Mutually exclusive with
// Model.
func (b *RequestBuilder) Agent(id string) *RequestBuilder {
	b.agent = id
	return b
}

// AgentConfig supplies agent-specific configuration. Building a request
// with agent configuration but no agent target fails with
// AgentConfigWithoutAgent.
func (b *RequestBuilder) AgentConfig(cfg AgentConfig) *RequestBuilder {
	b.agentConfig = &cfg
	return b
}

// System sets the system instruction.
func (b *RequestBuilder) System(instruction string) *RequestBuilder {
	b.system = instruction
	return b
}

// Text sets plain-text input. Mutually exclusive with Turns and Content.
func (b *RequestBuilder) Text(text string) *RequestBuilder {
	b.text = text
	b.textSet = true
	return b
}

// Turns sets a multi-turn history as input. Mutually exclusive with Text
// and Content.
func (b *RequestBuilder) Turns(turns ...Turn) *RequestBuilder {
	b.turns = turns
	return b
}

// Content sets raw content items as input. Mutually exclusive with Text and
// Turns. This is the input mode used to return function results.
func (b *RequestBuilder) Content(items ...Content) *RequestBuilder {
	b.content = items
	return b
}

// Tools adds function declarations the model may call. Repeated calls
// accumulate.
func (b *RequestBuilder) Tools(decls ...ToolDecl) *RequestBuilder {
	b.tools = append(b.tools, decls...)
	return b
}

// Generation sets the sampling and output parameters.
func (b *RequestBuilder) Generation(cfg GenerationConfig) *RequestBuilder {
	b.generation = &cfg
	return b
}

// Timeout bounds the network call for this request.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.timeout = d
	return b
}

// PreviousInteraction chains the request to a stored interaction, moving
// the builder to the Chained state. Chaining requires persistence: calling
// this on a StoreDisabled builder makes Build fail with
// PersistenceRequired. An empty id is a no-op and does not consume the
// state transition.
func (b *RequestBuilder) PreviousInteraction(id string) *RequestBuilder {
	if id == "" {
		return b
	}
	if b.state == StateStoreDisabled {
		b.persistenceViolated = true
		return b
	}
	b.previousID = id
	b.state = StateChained
	return b
}

// DisableStore asks the service not to persist this interaction, moving
// the builder to the StoreDisabled state. Calling this on a Chained builder
// makes Build fail with PersistenceRequired.
func (b *RequestBuilder) DisableStore() *RequestBuilder {
	if b.state == StateChained {
		b.persistenceViolated = true
		return b
	}
	f := false
	b.store = &f
	b.state = StateStoreDisabled
	return b
}

// Background requests background execution. Requires persistence.
func (b *RequestBuilder) Background() *RequestBuilder {
	b.background = true
	return b
}

// Build validates the accumulated configuration and returns the request.
// On violation it returns a *ValidationError identifying the rule; the
// request is never partially constructed.
func (b *RequestBuilder) Build() (*Request, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	req := &Request{
		Model:                 b.model,
		Agent:                 b.agent,
		AgentConfig:           b.agentConfig,
		System:                b.system,
		Tools:                 append([]ToolDecl(nil), b.tools...),
		Generation:            b.generation,
		PreviousInteractionID: b.previousID,
		Store:                 b.store,
		Background:            b.background,
		Timeout:               b.timeout,
	}
	switch {
	case len(b.turns) > 0:
		req.Turns = append([]Turn(nil), b.turns...)
	case len(b.content) > 0:
		req.Content = append([]Content(nil), b.content...)
	default:
		req.Text = b.text
	}
	return req, nil
}

// validate is the single implementation of the composition rule table.
// Rules are checked in priority order so a request violating several rules
// reports the same kind regardless of the order settings were applied.
func (b *RequestBuilder) validate() *ValidationError {
	inputs := 0
	if b.textSet {
		inputs++
	}
	if len(b.turns) > 0 {
		inputs++
	}
	if len(b.content) > 0 {
		inputs++
	}
	if inputs > 1 {
		return &ValidationError{
			Kind:    IncompatibleInput,
			Message: "incompatible input modes: set only one of text, turns, or content",
		}
	}

	switch {
	case b.model == "" && b.agent == "":
		return &ValidationError{
			Kind:    TargetRequired,
			Message: "target required: set a model or an agent",
		}
	case b.model != "" && b.agent != "":
		return &ValidationError{
			Kind:    TargetExclusive,
			Message: "target is exclusive: set either a model or an agent, not both",
		}
	}

	if b.agentConfig != nil && b.agent == "" {
		return &ValidationError{
			Kind:    AgentConfigWithoutAgent,
			Message: "agent configuration requires an agent target",
		}
	}

	if b.persistenceViolated ||
		(b.state == StateStoreDisabled && (b.background || b.previousID != "")) {
		return &ValidationError{
			Kind:    PersistenceRequired,
			Message: "persistence required: chaining and background execution need the store enabled",
		}
	}

	if inputs == 0 {
		return &ValidationError{
			Kind:    InputRequired,
			Message: "input required: set text, turns, or content",
		}
	}

	return nil
}
