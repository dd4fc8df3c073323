package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docchunk/internal/document"
)

// JSONLoader reads a page map produced by an external parser:
// [{"page": 1, "text": "..."}, ...].
type JSONLoader struct{}

func (l *JSONLoader) Load(r io.Reader, filename string) (*Document, error) {
	var pages []document.PageEntry
	if err := json.NewDecoder(r).Decode(&pages); err != nil {
		return nil, fmt.Errorf("decode page map: %w", err)
	}
	if err := ValidatePages(pages); err != nil {
		return nil, err
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return &Document{
		Text:     strings.Join(texts, "\f"),
		Pages:    pages,
		Metadata: document.Metadata{Filename: filename, LoadingMethod: "json"},
	}, nil
}

// ValidatePages checks that page numbers are positive and unique.
func ValidatePages(pages []document.PageEntry) error {
	seen := make(map[int]bool, len(pages))
	for i, p := range pages {
		if p.Page < 1 {
			return fmt.Errorf("page map entry %d: page number %d must be >= 1", i, p.Page)
		}
		if seen[p.Page] {
			return fmt.Errorf("page map entry %d: duplicate page number %d", i, p.Page)
		}
		seen[p.Page] = true
	}
	return nil
}
