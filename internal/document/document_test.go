package document

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewChunk_PageRange(t *testing.T) {
	c := NewChunk(3, 12, "some text", 2)
	if c.Metadata.ChunkID != 3 {
		t.Errorf("expected chunk_id 3, got %d", c.Metadata.ChunkID)
	}
	if c.Metadata.PageRange != "12" {
		t.Errorf("expected page_range %q, got %q", "12", c.Metadata.PageRange)
	}
}

func TestRecord_ValidateOK(t *testing.T) {
	r := &Record{
		TotalChunks: 2,
		Chunks: []Chunk{
			NewChunk(1, 1, "a", 1),
			NewChunk(2, 2, "b", 1),
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecord_ValidateGap(t *testing.T) {
	r := &Record{
		TotalChunks: 2,
		Chunks: []Chunk{
			NewChunk(1, 1, "a", 1),
			NewChunk(3, 1, "b", 1),
		},
	}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for chunk_id gap")
	}
}

func TestRecord_ValidateTotalMismatch(t *testing.T) {
	r := &Record{TotalChunks: 1}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for total mismatch")
	}
}

func TestRecord_JSONFieldNames(t *testing.T) {
	r := Record{
		Filename:       "report.txt",
		TotalChunks:    1,
		TotalPages:     1,
		LoadingMethod:  "text",
		ChunkingMethod: "by_pages",
		Timestamp:      "2024-01-01T00:00:00Z",
		Chunks:         []Chunk{NewChunk(1, 1, "hello world", 2)},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, key := range []string{
		`"filename"`, `"total_chunks"`, `"total_pages"`, `"loading_method"`,
		`"chunking_method"`, `"timestamp"`, `"chunks"`, `"content"`,
		`"chunk_id"`, `"page_number"`, `"page_range"`, `"word_count"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("expected JSON to contain %s, got %s", key, out)
		}
	}
}
