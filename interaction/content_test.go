package interaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		item Content
	}{
		{"text", TextContent{Text: "hello"}},
		{"thought", ThoughtContent{Text: "thinking...", Signature: "sig-1"}},
		{"function call", FunctionCall{ID: "call-1", Name: "get_weather", Args: map[string]any{"city": "Oslo"}}},
		{"function result", FunctionResult{CallID: "call-1", Name: "get_weather", Result: "sunny"}},
		{"function error result", FunctionResult{CallID: "call-2", Name: "get_weather", Error: "city not found"}},
		{"image", ImageContent{Image: Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}}},
		{"audio", AudioContent{Audio: Blob{MIMEType: "audio/wav", URI: "https://example.com/a.wav"}}},
		{"document", DocumentContent{Document: Blob{MIMEType: "application/pdf", Data: []byte("pdf")}}},
		{"search call", SearchCall{Queries: []string{"go sse parser"}}},
		{"search result", SearchResult{Results: []SearchHit{{Title: "t", URL: "https://example.com", Snippet: "s"}}}},
		{"url fetch call", URLFetchCall{URLs: []string{"https://example.com"}}},
		{"url fetch result", URLFetchResult{URL: "https://example.com", Status: "URL_FETCH_STATUS_OK", Content: "body"}},
		{"code execution call", CodeExecutionCall{Language: "PYTHON", Code: "print(1)"}},
		{"code execution result", CodeExecutionResult{Outcome: "OUTCOME_OK", Output: "1\n"}},
	}

	codec := &Codec{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.item)
			require.NoError(t, err)

			decoded, err := codec.DecodeContent(encoded)
			require.NoError(t, err)

			reencoded, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(encoded), string(reencoded))
			assert.Equal(t, tt.item.Kind(), decoded.Kind())
		})
	}
}

func TestDecodeContentFunctionCallArgs(t *testing.T) {
	codec := &Codec{}
	decoded, err := codec.DecodeContent([]byte(`{"type":"function_call","id":"a","name":"add","args":{"x":1,"y":2}}`))
	require.NoError(t, err)

	call, ok := decoded.(FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "a", call.ID)
	assert.Equal(t, "add", call.Name)
	assert.Equal(t, map[string]any{"x": float64(1), "y": float64(2)}, call.Args)
}

func TestDecodeContentUnknownKindPreserved(t *testing.T) {
	raw := `{"type":"holographic_mesh","mesh":{"vertices":12,"payload":"abc"}}`

	codec := &Codec{}
	decoded, err := codec.DecodeContent([]byte(raw))
	require.NoError(t, err)

	unknown, ok := decoded.(UnknownContent)
	require.True(t, ok)
	assert.Equal(t, "holographic_mesh", unknown.RawKind)
	assert.Equal(t, "holographic_mesh", unknown.Kind())

	// Round-tripping an unknown kind must be lossless.
	reencoded, err := json.Marshal(unknown)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(reencoded))

	again, err := codec.DecodeContent(reencoded)
	require.NoError(t, err)
	assert.Equal(t, decoded, again)
}

func TestDecodeContentStrictMode(t *testing.T) {
	codec := &Codec{Strict: true}
	_, err := codec.DecodeContent([]byte(`{"type":"holographic_mesh"}`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Error(), "holographic_mesh")
}

func TestDecodeContentMalformed(t *testing.T) {
	codec := &Codec{}
	_, err := codec.DecodeContent([]byte(`{"type":`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestMediaKindsNestPayload(t *testing.T) {
	encoded, err := json.Marshal(ImageContent{Image: Blob{MIMEType: "image/png", Data: []byte{0xff}}})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(encoded, &wire))
	assert.Equal(t, "image", wire["type"])
	assert.Contains(t, wire, "image")

	nested, ok := wire["image"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "image/png", nested["mimeType"])
}
