package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Wire inspection is observational only: payloads are rendered to the
// logger at debug level and large inline values (base64 media blobs) are
// truncated so logs stay readable.

const truncateAt = 256

func (c *Client) logOutbound(requestID string, body []byte) {
	if !c.debug || body == nil {
		return
	}
	logPayload(c.logger, "outbound request", requestID, body)
}

func (c *Client) logInbound(requestID string, body []byte) {
	if !c.debug {
		return
	}
	logPayload(c.logger, "inbound response", requestID, body)
}

func logPayload(logger *slog.Logger, what, requestID string, payload []byte) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug(what, "requestId", requestID, "payload", renderPayload(payload))
}

func renderPayload(payload []byte) string {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		if len(payload) > 4*truncateAt {
			return fmt.Sprintf("%s... (%d bytes)", payload[:4*truncateAt], len(payload))
		}
		return string(payload)
	}
	rendered, err := json.Marshal(truncateValues(v))
	if err != nil {
		return string(payload)
	}
	return string(rendered)
}

func truncateValues(v any) any {
	switch val := v.(type) {
	case string:
		if len(val) > truncateAt {
			return fmt.Sprintf("%s... (%d bytes elided)", val[:truncateAt], len(val)-truncateAt)
		}
	case map[string]any:
		for k, item := range val {
			val[k] = truncateValues(item)
		}
	case []any:
		for i, item := range val {
			val[i] = truncateValues(item)
		}
	}
	return v
}
