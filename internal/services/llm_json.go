package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeModelJSON parses a generation-backend response into target. Models
// sometimes wrap their JSON in a markdown code fence; the recovery is exactly
// one fenced-block strip followed by one re-parse, then the unit fails.
func decodeModelJSON(response string, target interface{}) error {
	trimmed := strings.TrimSpace(response)

	firstErr := json.Unmarshal([]byte(trimmed), target)
	if firstErr == nil {
		return nil
	}

	stripped, found := stripCodeFence(trimmed)
	if !found {
		return fmt.Errorf("response is not valid JSON: %w", firstErr)
	}

	if err := json.Unmarshal([]byte(stripped), target); err != nil {
		return fmt.Errorf("response is not valid JSON after removing code fence: %w", err)
	}
	return nil
}

// stripCodeFence returns the body of the first ``` or ```json fenced block.
// A missing closing fence keeps the remainder, matching how lenient parsers
// treat truncated model output.
func stripCodeFence(text string) (string, bool) {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		body := text[idx+len("```json"):]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body), true
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		body := text[idx+len("```"):]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body), true
	}

	return "", false
}
