package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildErrKind(t *testing.T, b *RequestBuilder) ValidationKind {
	t.Helper()
	_, err := b.Build()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Kind
}

func TestBuildMinimal(t *testing.T) {
	req, err := NewRequest().Model("m-large").Text("hi").Build()
	require.NoError(t, err)
	assert.Equal(t, "m-large", req.Model)
	assert.Equal(t, "hi", req.Text)
}

func TestBuildInputModeCombinations(t *testing.T) {
	text := func(b *RequestBuilder) *RequestBuilder { return b.Text("hi") }
	turns := func(b *RequestBuilder) *RequestBuilder { return b.Turns(UserTurn("hi")) }
	content := func(b *RequestBuilder) *RequestBuilder {
		return b.Content(FunctionResult{CallID: "a", Name: "f", Result: "ok"})
	}

	tests := []struct {
		name     string
		inputs   []func(*RequestBuilder) *RequestBuilder
		wantKind ValidationKind
	}{
		{"text only", []func(*RequestBuilder) *RequestBuilder{text}, ""},
		{"turns only", []func(*RequestBuilder) *RequestBuilder{turns}, ""},
		{"content only", []func(*RequestBuilder) *RequestBuilder{content}, ""},
		{"none", nil, InputRequired},
		{"text and turns", []func(*RequestBuilder) *RequestBuilder{text, turns}, IncompatibleInput},
		{"turns and content", []func(*RequestBuilder) *RequestBuilder{turns, content}, IncompatibleInput},
		{"text and content", []func(*RequestBuilder) *RequestBuilder{text, content}, IncompatibleInput},
		{"all three", []func(*RequestBuilder) *RequestBuilder{text, turns, content}, IncompatibleInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRequest().Model("m")
			for _, apply := range tt.inputs {
				b = apply(b)
			}
			_, err := b.Build()
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantKind, vErr.Kind)
		})
	}
}

func TestBuildInputModesOrderIndependent(t *testing.T) {
	// Setting text then turns must fail exactly like turns then text.
	_, errA := NewRequest().Model("m").Text("hi").Turns(UserTurn("hey")).Build()
	_, errB := NewRequest().Model("m").Turns(UserTurn("hey")).Text("hi").Build()

	var vErrA, vErrB *ValidationError
	require.ErrorAs(t, errA, &vErrA)
	require.ErrorAs(t, errB, &vErrB)
	assert.Equal(t, vErrA.Kind, vErrB.Kind)
	assert.Equal(t, IncompatibleInput, vErrA.Kind)
}

func TestBuildTargetRules(t *testing.T) {
	assert.Equal(t, TargetRequired, buildErrKind(t, NewRequest().Text("hi")))
	assert.Equal(t, TargetExclusive, buildErrKind(t, NewRequest().Model("m").Agent("a").Text("hi")))

	req, err := NewRequest().Agent("support-agent").Text("hi").Build()
	require.NoError(t, err)
	assert.Equal(t, "support-agent", req.Agent)
	assert.Empty(t, req.Model)
}

func TestBuildAgentConfigRequiresAgentTarget(t *testing.T) {
	b := NewRequest().Model("m").Text("hi").AgentConfig(AgentConfig{Version: "2"})
	assert.Equal(t, AgentConfigWithoutAgent, buildErrKind(t, b))

	_, err := NewRequest().Agent("a").Text("hi").AgentConfig(AgentConfig{Version: "2"}).Build()
	assert.NoError(t, err)
}

func TestBuildPersistenceRules(t *testing.T) {
	t.Run("background requires store", func(t *testing.T) {
		b := NewRequest().Model("m").Text("hi").DisableStore().Background()
		assert.Equal(t, PersistenceRequired, buildErrKind(t, b))
	})

	t.Run("chaining after store disabled", func(t *testing.T) {
		b := NewRequest().Model("m").Text("hi").DisableStore().PreviousInteraction("int-1")
		assert.Equal(t, PersistenceRequired, buildErrKind(t, b))
	})

	t.Run("store disabled after chaining", func(t *testing.T) {
		b := NewRequest().Model("m").Text("hi").PreviousInteraction("int-1").DisableStore()
		assert.Equal(t, PersistenceRequired, buildErrKind(t, b))
	})

	t.Run("chaining with store enabled", func(t *testing.T) {
		req, err := NewRequest().Model("m").Text("hi").PreviousInteraction("int-1").Build()
		require.NoError(t, err)
		assert.Equal(t, "int-1", req.PreviousInteractionID)
	})
}

func TestBuilderStateReachability(t *testing.T) {
	// Chained and StoreDisabled are terminal and mutually unreachable,
	// for any operation ordering.
	b := NewRequest().Model("m").Text("hi")
	assert.Equal(t, StateFirstTurn, b.State())

	b.PreviousInteraction("int-1")
	assert.Equal(t, StateChained, b.State())
	b.DisableStore()
	assert.Equal(t, StateChained, b.State())

	b2 := NewRequest().Model("m").Text("hi").DisableStore()
	assert.Equal(t, StateStoreDisabled, b2.State())
	b2.PreviousInteraction("int-1")
	assert.Equal(t, StateStoreDisabled, b2.State())
}

func TestBuildEmptyPreviousInteractionIsNoOp(t *testing.T) {
	b := NewRequest().Model("m").Text("hi").PreviousInteraction("")
	assert.Equal(t, StateFirstTurn, b.State())

	// The builder can still disable persistence afterwards.
	req, err := b.DisableStore().Build()
	require.NoError(t, err)
	require.NotNil(t, req.Store)
	assert.False(t, *req.Store)
	assert.Empty(t, req.PreviousInteractionID)
}

func TestBuildRulePriority(t *testing.T) {
	// A builder violating both the input rule and the target rule reports
	// the input rule: rules are checked in priority order.
	b := NewRequest().Text("hi").Turns(UserTurn("hey"))
	assert.Equal(t, IncompatibleInput, buildErrKind(t, b))
}

func TestBuildAccumulatesTools(t *testing.T) {
	req, err := NewRequest().
		Model("m").
		Text("hi").
		Tools(ToolDecl{Name: "a"}).
		Tools(ToolDecl{Name: "b"}, ToolDecl{Name: "c"}).
		Build()
	require.NoError(t, err)
	require.Len(t, req.Tools, 3)
	assert.Equal(t, "a", req.Tools[0].Name)
	assert.Equal(t, "c", req.Tools[2].Name)
}

func TestBuildLastWriteWins(t *testing.T) {
	req, err := NewRequest().
		Model("m-small").
		Model("m-large").
		System("first").
		System("second").
		Text("hi").
		Timeout(time.Minute).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "m-large", req.Model)
	assert.Equal(t, "second", req.System)
	assert.Equal(t, time.Minute, req.Timeout)
}

func TestBuildProducesImmutableRequest(t *testing.T) {
	b := NewRequest().Model("m").Content(TextContent{Text: "one"})
	req, err := b.Build()
	require.NoError(t, err)

	// Mutating the builder afterwards must not affect the built request.
	b.Content(TextContent{Text: "two"}, TextContent{Text: "three"})
	require.Len(t, req.Content, 1)
}
