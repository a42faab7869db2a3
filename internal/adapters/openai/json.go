package openai

import "strings"

// stripFences removes markdown code fences around a JSON payload. Models
// sometimes wrap output in ```json blocks even when asked not to.
func stripFences(text string) []byte {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if _, rest, ok := strings.Cut(text, "```"); ok {
			text = rest
		}
		if closing := strings.LastIndex(text, "```"); closing >= 0 {
			text = text[:closing]
		}
		text = strings.TrimSpace(text)
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimPrefix(text, "JSON")
	}
	return []byte(strings.TrimSpace(text))
}
