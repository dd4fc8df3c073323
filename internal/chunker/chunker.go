package chunker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docchunk/internal/document"
)

// Method selects a chunking strategy.
type Method string

const (
	MethodByPages      Method = "by_pages"
	MethodFixedSize    Method = "fixed_size"
	MethodByParagraphs Method = "by_paragraphs"
	MethodBySentences  Method = "by_sentences"
	MethodBySeparators Method = "by_separators"
)

// Methods lists every supported strategy.
var Methods = []Method{
	MethodByPages,
	MethodFixedSize,
	MethodByParagraphs,
	MethodBySentences,
	MethodBySeparators,
}

// IsSupported reports whether m names a known strategy.
func (m Method) IsSupported() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	// TimestampFormat is ISO-8601 with microseconds.
	TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"
)

// Request is one chunking call.
type Request struct {
	// Text is the whole-document text as produced by the loader. Splitting
	// always works from Pages.
	Text         string
	Method       Method
	Metadata     document.Metadata
	Pages        []document.PageEntry
	ChunkSize    int // Character budget per chunk.
	ChunkOverlap int // Character overlap between consecutive chunks.
	Separators   []string
}

// DefaultRequest returns a request with the default sizes for method.
func DefaultRequest(method Method) Request {
	return Request{
		Method:       method,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
}

// Engine dispatches pages to a splitting strategy and assembles the record.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	log     *slog.Logger
	workers int
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers splits up to n pages concurrently. Values below 2 keep
// splitting sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine.
func New(log *slog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{log: log, workers: 1, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type splitFunc func(text string) []string

// ChunkText splits every page of req with the requested strategy and returns
// the numbered chunks as a document record. Errors are logged and returned
// as-is; no partial record is ever returned.
func (e *Engine) ChunkText(req Request) (*document.Record, error) {
	log := e.log.With("method", string(req.Method), "pages", len(req.Pages), "filename", req.Metadata.Filename)

	if len(req.Pages) == 0 {
		err := fmt.Errorf("%w: page map is required", ErrInvalidInput)
		log.Error("chunk text failed", "error", err)
		return nil, err
	}

	split, err := e.splitter(req)
	if err != nil {
		log.Error("chunk text failed", "error", err)
		return nil, err
	}

	pieces, err := e.splitPages(req.Pages, split, log)
	if err != nil {
		return nil, err
	}

	chunks := make([]document.Chunk, 0, len(req.Pages))
	for i, page := range req.Pages {
		for _, piece := range pieces[i] {
			if isBlank(piece) {
				continue
			}
			chunks = append(chunks, document.NewChunk(len(chunks)+1, page.Page, piece, CountWords(piece)))
		}
	}

	log.Debug("chunked document", "chunks", len(chunks))

	return &document.Record{
		Filename:       req.Metadata.Filename,
		TotalChunks:    len(chunks),
		TotalPages:     len(req.Pages),
		LoadingMethod:  req.Metadata.LoadingMethod,
		ChunkingMethod: string(req.Method),
		Timestamp:      e.now().Format(TimestampFormat),
		Chunks:         chunks,
	}, nil
}

// splitter resolves the per-page split function for req.
func (e *Engine) splitter(req Request) (splitFunc, error) {
	switch req.Method {
	case MethodByPages:
		return nonBlank, nil
	case MethodFixedSize:
		return func(text string) []string {
			return fixedSizeChunks(text, req.ChunkSize, req.ChunkOverlap)
		}, nil
	case MethodByParagraphs:
		return paragraphChunks, nil
	case MethodBySentences:
		rs, err := newRecursiveSplitter(req.ChunkSize, req.ChunkOverlap, SentenceSeparators)
		if err != nil {
			return nil, err
		}
		return rs.Split, nil
	case MethodBySeparators:
		seps := req.Separators
		if len(seps) == 0 {
			seps = DefaultSeparators
		}
		rs, err := newRecursiveSplitter(req.ChunkSize, req.ChunkOverlap, seps)
		if err != nil {
			return nil, err
		}
		return rs.Split, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
}
