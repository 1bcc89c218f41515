package judge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSONResponse unmarshals a model response into target. It first tries
// the raw response, then the content of the first fenced code block. Model
// responses often wrap JSON in markdown fences.
func ParseJSONResponse(response string, target interface{}) error {
	trimmed := strings.TrimSpace(response)

	err := json.Unmarshal([]byte(trimmed), target)
	if err == nil {
		return nil
	}

	fenced, found := firstFencedBlock(trimmed)
	if !found {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	err = json.Unmarshal([]byte(fenced), target)
	if err != nil {
		return fmt.Errorf("fenced block is not valid JSON: %w", err)
	}

	return nil
}

// firstFencedBlock returns the content of the first markdown code fence,
// stripping an optional language tag like "json" after the opening fence.
func firstFencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	block := rest[:end]

	// Drop a language tag on the opening fence line
	newline := strings.Index(block, "\n")
	if newline >= 0 {
		firstLine := strings.TrimSpace(block[:newline])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{[") {
			block = block[newline+1:]
		}
	}

	return strings.TrimSpace(block), true
}
