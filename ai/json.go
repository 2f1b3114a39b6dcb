package ai

import (
	"encoding/json"
	"strings"
)

// DecodeJSON decodes a model answer into v. Markdown code fences are stripped
// and common formatting slips are repaired before unmarshaling.
func DecodeJSON(answer string, v any) error {
	return json.Unmarshal([]byte(CleanJSON(answer)), v)
}

// CleanJSON strips code fences and surrounding prose from a model answer and
// repairs unquoted keys.
func CleanJSON(answer string) string {
	text := strings.TrimSpace(answer)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Keep only the outermost object when the model added a preamble.
	if start, end := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}'); start > 0 && end > start {
		text = text[start : end+1]
	}

	return repairJSON(text)
}
