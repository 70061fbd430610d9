package ai

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// ParseError reports a model response that could not be decoded into the
// expected structure. The raw text is kept for logging, never for clients.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return "llm response parse failed: " + e.Reason
}

// ExtractJSONObject pulls the outermost JSON object out of a model reply.
// Models often wrap JSON in prose or code fences, so the span between the
// first '{' and the last '}' is decoded rather than the whole reply.
func ExtractJSONObject(raw string, out any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return &ParseError{Reason: "no JSON object in response", Raw: raw}
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), out); err != nil {
		return &ParseError{Reason: fmt.Sprintf("invalid JSON object: %v", err), Raw: raw}
	}
	return nil
}

// ExtractJSONArray pulls the outermost JSON array out of a model reply.
func ExtractJSONArray(raw string, out any) error {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return &ParseError{Reason: "no JSON array in response", Raw: raw}
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), out); err != nil {
		return &ParseError{Reason: fmt.Sprintf("invalid JSON array: %v", err), Raw: raw}
	}
	return nil
}
