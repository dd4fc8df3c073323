package document

import (
	"fmt"
	"strconv"
)

// PageEntry is one page of loader output.
type PageEntry struct {
	Page int    `json:"page"` // 1-based page number
	Text string `json:"text"`
}

// Metadata is the document-level metadata supplied alongside a page map.
type Metadata struct {
	Filename      string `json:"filename"`
	LoadingMethod string `json:"loading_method"`
}

// ChunkMetadata records where a chunk came from.
type ChunkMetadata struct {
	ChunkID    int    `json:"chunk_id"`    // 1-based, sequential across the whole document
	PageNumber int    `json:"page_number"` // Source page
	PageRange  string `json:"page_range"`  // Page number as text
	WordCount  int    `json:"word_count"`
}

// Chunk is a sized text segment ready for embedding.
type Chunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Record is the normalized result of chunking one document.
type Record struct {
	Filename       string  `json:"filename"`
	TotalChunks    int     `json:"total_chunks"`
	TotalPages     int     `json:"total_pages"`
	LoadingMethod  string  `json:"loading_method"`
	ChunkingMethod string  `json:"chunking_method"`
	Timestamp      string  `json:"timestamp"`
	Chunks         []Chunk `json:"chunks"`
}

// NewChunk builds a chunk for content taken from page, numbered id.
func NewChunk(id, page int, content string, wordCount int) Chunk {
	return Chunk{
		Content: content,
		Metadata: ChunkMetadata{
			ChunkID:    id,
			PageNumber: page,
			PageRange:  strconv.Itoa(page),
			WordCount:  wordCount,
		},
	}
}

// Validate checks the numbering and total invariants of a record.
func (r *Record) Validate() error {
	if r.TotalChunks != len(r.Chunks) {
		return fmt.Errorf("total_chunks %d does not match %d chunks", r.TotalChunks, len(r.Chunks))
	}
	for i, c := range r.Chunks {
		if c.Metadata.ChunkID != i+1 {
			return fmt.Errorf("chunk %d has chunk_id %d", i, c.Metadata.ChunkID)
		}
		if c.Metadata.PageRange != strconv.Itoa(c.Metadata.PageNumber) {
			return fmt.Errorf("chunk %d: page_range %q does not match page %d", c.Metadata.ChunkID, c.Metadata.PageRange, c.Metadata.PageNumber)
		}
	}
	return nil
}
