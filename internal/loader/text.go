package loader

import (
	"fmt"
	"io"
	"strings"
)

// TextLoader handles plain text files. Form feeds separate pages, which is
// what pdftotext and most print-to-text tools emit.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return newDocument(filename, "text", strings.Split(text, "\f")), nil
}
