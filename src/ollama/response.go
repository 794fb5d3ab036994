package ollama

import (
	"encoding/json"
	"strings"
)

// ResponseKind tags the shape a model response arrived in. Providers are
// inconsistent: some return a bare string, some an object carrying
// message.content, some an array of such objects. The decoder makes the
// shape explicit instead of duck-typing at the call sites.
type ResponseKind string

const (
	// KindText is a plain string body, JSON-encoded or raw.
	KindText ResponseKind = "text"
	// KindMessage is an object exposing message.content.
	KindMessage ResponseKind = "message"
	// KindMessageList is an array whose first element exposes message.content.
	KindMessageList ResponseKind = "message_list"
	// KindUnknown is any other shape; Text carries its serialized form for diagnostics.
	KindUnknown ResponseKind = "unknown"
)

// Response is the decoded union of the known model response shapes.
type Response struct {
	Kind ResponseKind
	// Text is the extracted content, or the serialized raw payload for KindUnknown.
	Text string
	// Raw preserves the undecoded body.
	Raw json.RawMessage
}

type messageEnvelope struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
}

// DecodeResponse decodes a model response body through the tolerant union.
// It never fails: a body that matches none of the known shapes is kept
// verbatim (raw text) or serialized (other JSON) as a diagnostic string
// under KindUnknown.
func DecodeResponse(body []byte) Response {
	raw := json.RawMessage(append([]byte(nil), body...))

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		return Response{Kind: KindText, Text: asString, Raw: raw}
	}

	var asMessage messageEnvelope
	if err := json.Unmarshal(body, &asMessage); err == nil && asMessage.Message != nil {
		return Response{Kind: KindMessage, Text: asMessage.Message.Content, Raw: raw}
	}

	var asList []messageEnvelope
	if err := json.Unmarshal(body, &asList); err == nil {
		if len(asList) > 0 && asList[0].Message != nil {
			return Response{Kind: KindMessageList, Text: asList[0].Message.Content, Raw: raw}
		}
		return Response{Kind: KindUnknown, Text: strings.TrimSpace(string(body)), Raw: raw}
	}

	if json.Valid(body) {
		return Response{Kind: KindUnknown, Text: strings.TrimSpace(string(body)), Raw: raw}
	}

	// Not JSON at all: treat the body as plain text.
	return Response{Kind: KindText, Text: strings.TrimSpace(string(body)), Raw: raw}
}
