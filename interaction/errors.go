package interaction

import "fmt"

// ValidationKind identifies which composition rule a request violated.
// Callers branch on the kind, never on the message text.
type ValidationKind string

// Validation kinds.
const (
	// IncompatibleInput: more than one of text, turn history and raw
	// content was set.
	IncompatibleInput ValidationKind = "incompatible_input"

	// TargetRequired: neither a model nor an agent was set.
	TargetRequired ValidationKind = "target_required"

	// TargetExclusive: both a model and an agent were set.
	TargetExclusive ValidationKind = "target_exclusive"

	// AgentConfigWithoutAgent: agent configuration was supplied but the
	// request targets a bare model.
	AgentConfigWithoutAgent ValidationKind = "agent_config_without_agent"

	// PersistenceRequired: chaining or background execution was requested
	// on a request with persistence disabled.
	PersistenceRequired ValidationKind = "persistence_required"

	// InputRequired: no input of any kind was set.
	InputRequired ValidationKind = "input_required"
)

// ValidationError reports a request that violates a composition rule. It is
// raised by RequestBuilder.Build before any network activity.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request (%s): %s", e.Kind, e.Message)
}
