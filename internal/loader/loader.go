package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchunk/internal/document"
)

// Document is loader output: a page map plus document-level metadata.
type Document struct {
	Text     string // Whole-document text, pages separated by form feeds
	Pages    []document.PageEntry
	Metadata document.Metadata
}

// Loader converts raw document bytes into a page map.
type Loader interface {
	Load(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can load.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".json":     true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".json":
		return &JSONLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// newDocument numbers pages by position. Blank pages are skipped but keep
// their slot, so page numbers match the source.
func newDocument(filename, method string, pages []string) *Document {
	doc := &Document{
		Text:     strings.Join(pages, "\f"),
		Metadata: document.Metadata{Filename: filename, LoadingMethod: method},
	}
	for i, text := range pages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc.Pages = append(doc.Pages, document.PageEntry{Page: i + 1, Text: text})
	}
	return doc
}
