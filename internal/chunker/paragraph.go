package chunker

import "strings"

// paragraphChunks splits on blank lines. Each trimmed, non-empty paragraph
// becomes one chunk regardless of its size.
func paragraphChunks(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
