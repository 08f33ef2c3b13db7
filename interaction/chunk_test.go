package interaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		chunk Chunk
	}{
		{"start", StartChunk{ID: "int-1", Model: "m-large"}},
		{"status", StatusChunk{Status: StatusInProgress}},
		{"content start", ContentStartChunk{Index: 0, ContentKind: "text"}},
		{"delta", DeltaChunk{Index: 0, Delta: TextContent{Text: "hel"}}},
		{"content stop", ContentStopChunk{Index: 0}},
		{"complete", CompleteChunk{ID: "int-1", Status: StatusCompleted, Usage: &Usage{InputTokens: 3, OutputTokens: 5, TotalTokens: 8}}},
		{"error", ErrorChunk{Code: 8, Status: "RESOURCE_EXHAUSTED", Message: "quota"}},
	}

	codec := &Codec{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.chunk)
			require.NoError(t, err)

			decoded, err := codec.DecodeChunk(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.chunk, decoded)

			reencoded, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(encoded), string(reencoded))
		})
	}
}

func TestDecodeChunkUnknownTypePreserved(t *testing.T) {
	raw := `{"type":"interaction.telemetry","latencyMs":42}`

	codec := &Codec{}
	decoded, err := codec.DecodeChunk([]byte(raw))
	require.NoError(t, err)

	unknown, ok := decoded.(UnknownChunk)
	require.True(t, ok)
	assert.Equal(t, "interaction.telemetry", unknown.RawType)
	assert.False(t, unknown.Terminal())

	reencoded, err := json.Marshal(unknown)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(reencoded))
}

func TestDecodeChunkStrictMode(t *testing.T) {
	codec := &Codec{Strict: true}
	_, err := codec.DecodeChunk([]byte(`{"type":"interaction.telemetry"}`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestChunkTerminality(t *testing.T) {
	assert.True(t, CompleteChunk{}.Terminal())
	assert.True(t, ErrorChunk{}.Terminal())
	assert.False(t, StartChunk{}.Terminal())
	assert.False(t, DeltaChunk{}.Terminal())
	assert.False(t, ParseErrorChunk{}.Terminal())
	assert.False(t, UnknownChunk{}.Terminal())
}

func TestDecodeChunkDeltaContent(t *testing.T) {
	codec := &Codec{}
	decoded, err := codec.DecodeChunk([]byte(`{"type":"content.delta","index":1,"delta":{"type":"function_call","id":"c1","name":"add","args":{"x":2}}}`))
	require.NoError(t, err)

	delta, ok := decoded.(DeltaChunk)
	require.True(t, ok)
	assert.Equal(t, 1, delta.Index)

	call, ok := delta.Delta.(FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "c1", call.ID)
}
