package chunker

import (
	"fmt"
	"strings"
)

var (
	// SentenceSeparators is the priority list used by MethodBySentences.
	SentenceSeparators = []string{".", "!", "?", "\n", " "}
	// DefaultSeparators is used by MethodBySeparators when the caller gives none.
	DefaultSeparators = []string{"\n\n", "\n", ". ", " "}
)

// recursiveSplitter splits text on a priority-ordered list of separators and
// greedily merges the pieces back up to size runes. Consecutive chunks share
// the trailing overlap runes of the earlier chunk.
type recursiveSplitter struct {
	size       int
	overlap    int
	separators []string
}

func newRecursiveSplitter(size, overlap int, separators []string) (*recursiveSplitter, error) {
	if overlap < 0 {
		overlap = 0
	}
	if size > 0 && overlap > size {
		return nil, fmt.Errorf("%w: chunk overlap %d is larger than chunk size %d", ErrSplitFailure, overlap, size)
	}
	seps := make([]string, len(separators))
	copy(seps, separators)
	return &recursiveSplitter{size: size, overlap: overlap, separators: seps}, nil
}

// Split returns the non-blank chunks of text in order.
func (s *recursiveSplitter) Split(text string) []string {
	if s.size <= 0 {
		return nonBlank(text)
	}
	return s.split("", text, s.separators)
}

// split handles one separator level. seed is overlap carried over from the
// previous chunk: it opens the first chunk produced here but never forms a
// chunk on its own. Every recursive call drops the head of seps, so the
// depth is bounded by len(s.separators).
func (s *recursiveSplitter) split(seed, text string, seps []string) []string {
	if isBlank(text) {
		return nil
	}
	textLen := runeLen(text)
	if textLen <= s.size {
		return []string{lastRunes(seed, s.size-textLen) + text}
	}
	if len(seps) == 0 {
		return []string{seed + text}
	}
	sep, rest := seps[0], seps[1:]
	if sep != "" && !strings.Contains(text, sep) {
		return s.split(seed, text, rest)
	}

	var (
		out       []string
		buf       strings.Builder
		bufLen    int
		seedBytes int    // leading bytes of buf that repeat prev
		fresh     bool   // buf holds non-blank text past the seed
		prev      string // last chunk produced at this level
	)
	emit := func(piece string) {
		prev = piece
		if !isBlank(piece) {
			out = append(out, piece)
		}
	}
	reseed := func(keep int) {
		next := lastRunes(prev, keep)
		buf.Reset()
		buf.WriteString(next)
		bufLen = runeLen(next)
		seedBytes = len(next)
		fresh = false
	}
	prev = seed
	reseed(runeLen(seed))

	for _, seg := range strings.SplitAfter(text, sep) {
		if seg == "" {
			continue
		}
		segLen := runeLen(seg)

		if segLen > s.size {
			// A buffer no longer than the overlap would come back whole as
			// the next seed, so it rides along into the recursion instead.
			if fresh && bufLen > s.overlap {
				emit(buf.String())
				reseed(s.overlap)
			}
			held := buf.String()
			for _, p := range s.split(held[:seedBytes], held[seedBytes:]+seg, rest) {
				emit(p)
			}
			reseed(s.overlap)
			continue
		}

		if bufLen+segLen > s.size {
			if fresh {
				emit(buf.String())
				reseed(s.overlap)
			}
			if bufLen+segLen > s.size {
				reseed(s.size - segLen)
			}
		}
		buf.WriteString(seg)
		bufLen += segLen
		if !isBlank(seg) {
			fresh = true
		}
	}
	if fresh {
		emit(buf.String())
	}

	return out
}

func nonBlank(text string) []string {
	if isBlank(text) {
		return nil
	}
	return []string{text}
}
