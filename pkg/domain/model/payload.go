package model

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// PayloadTypeCaseSearchResults tags replies carrying a case search result
// list. The presentation layer relies on this exact value to render the
// reply as a hit list instead of prose.
const PayloadTypeCaseSearchResults = "CASE_SEARCH_RESULTS"

// StructuredPayload is a reply body the frontend renders as something other
// than markdown prose. It is embedded in the reply string as serialized
// JSON and must round-trip through the conversation log unmodified.
type StructuredPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Data any    `json:"data,omitempty"`
}

// Encode serializes the payload into the reply-string representation.
func (x *StructuredPayload) Encode() (string, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode structured payload", goerr.V("type", x.Type))
	}
	return string(data), nil
}

// IsStructuredReply reports whether a reply string is a serialized
// structured payload, i.e. a JSON object with a "type" discriminator.
func IsStructuredReply(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return false
	}
	return probe.Type != ""
}
