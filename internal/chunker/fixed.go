package chunker

import "strings"

// charsPerWord converts a character budget into a word budget: an average
// English word of 5 characters plus one separator. Output sizes depend on
// this exact value, so it is not configurable.
const charsPerWord = 6

// fixedSizeChunks splits text into windows of whole words sized from a
// character budget, with an approximate word overlap between windows.
func fixedSizeChunks(text string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	wordsPerChunk := max(1, chunkSize/charsPerWord)
	overlapWords := 0
	if chunkOverlap > 0 {
		overlapWords = max(0, chunkOverlap/charsPerWord)
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := min(len(words), start+wordsPerChunk)
		piece := strings.Join(words[start:end], " ")
		if !isBlank(piece) {
			chunks = append(chunks, piece)
		}
		if end >= len(words) {
			break
		}
		next := max(0, end-overlapWords)
		// An overlap as wide as the window would never advance.
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}
