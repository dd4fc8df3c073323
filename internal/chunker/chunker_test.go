package chunker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docchunk/internal/document"
)

func testEngine(opts ...Option) *Engine {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func checkInvariants(t *testing.T, rec *document.Record) {
	t.Helper()
	if err := rec.Validate(); err != nil {
		t.Fatalf("record invariants: %v", err)
	}
	for _, c := range rec.Chunks {
		if strings.TrimSpace(c.Content) == "" {
			t.Errorf("chunk %d is blank", c.Metadata.ChunkID)
		}
		if got := len(strings.Fields(c.Content)); c.Metadata.WordCount != got {
			t.Errorf("chunk %d: word_count %d, want %d", c.Metadata.ChunkID, c.Metadata.WordCount, got)
		}
	}
}

func TestChunkText_ByPagesFidelity(t *testing.T) {
	pages := []document.PageEntry{
		{Page: 1, Text: "First page text."},
		{Page: 2, Text: "  Second page\nwith two lines. "},
		{Page: 5, Text: "Fifth."},
	}
	rec, err := testEngine().ChunkText(Request{Method: MethodByPages, Pages: pages})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)

	if rec.TotalChunks != rec.TotalPages {
		t.Fatalf("expected total_chunks == total_pages, got %d and %d", rec.TotalChunks, rec.TotalPages)
	}
	for i, p := range pages {
		c := rec.Chunks[i]
		if c.Content != p.Text {
			t.Errorf("chunk %d: expected content %q, got %q", i, p.Text, c.Content)
		}
		if c.Metadata.PageNumber != p.Page {
			t.Errorf("chunk %d: expected page %d, got %d", i, p.Page, c.Metadata.PageNumber)
		}
		if c.Metadata.PageRange != fmt.Sprint(p.Page) {
			t.Errorf("chunk %d: expected page_range %q, got %q", i, fmt.Sprint(p.Page), c.Metadata.PageRange)
		}
	}
}

func TestChunkText_ByPagesDropsBlankPages(t *testing.T) {
	pages := []document.PageEntry{
		{Page: 1, Text: "one"},
		{Page: 2, Text: "   \n\t"},
		{Page: 3, Text: "three"},
	}
	rec, err := testEngine().ChunkText(Request{Method: MethodByPages, Pages: pages})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)
	if rec.TotalChunks != 2 {
		t.Fatalf("expected 2 chunks, got %d", rec.TotalChunks)
	}
	if rec.TotalPages != 3 {
		t.Errorf("expected total_pages 3, got %d", rec.TotalPages)
	}
	if rec.Chunks[1].Metadata.PageNumber != 3 || rec.Chunks[1].Metadata.ChunkID != 2 {
		t.Errorf("expected second chunk from page 3 with id 2, got %+v", rec.Chunks[1].Metadata)
	}
}

func TestChunkText_FixedSizeDegenerate(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method:    MethodFixedSize,
		Pages:     []document.PageEntry{{Page: 1, Text: "a b c"}},
		ChunkSize: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.TotalChunks != 1 {
		t.Fatalf("expected 1 chunk, got %d", rec.TotalChunks)
	}
	if rec.Chunks[0].Content != "a b c" {
		t.Errorf("expected %q, got %q", "a b c", rec.Chunks[0].Content)
	}
	if rec.Chunks[0].Metadata.WordCount != 3 {
		t.Errorf("expected word_count 3, got %d", rec.Chunks[0].Metadata.WordCount)
	}
}

func TestChunkText_FixedSizeWindowing(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method:       MethodFixedSize,
		Pages:        []document.PageEntry{{Page: 1, Text: words(12)}},
		ChunkSize:    30,
		ChunkOverlap: 6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)

	want := []string{
		"w0 w1 w2 w3 w4",
		"w4 w5 w6 w7 w8",
		"w8 w9 w10 w11",
	}
	if rec.TotalChunks != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), rec.TotalChunks)
	}
	for i, w := range want {
		if rec.Chunks[i].Content != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, rec.Chunks[i].Content)
		}
	}
}

func TestChunkText_ByParagraphs(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method: MethodByParagraphs,
		Pages:  []document.PageEntry{{Page: 1, Text: "Para one.\n\nPara two.\n\n\nPara three."}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)

	want := []string{"Para one.", "Para two.", "Para three."}
	if rec.TotalChunks != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), rec.TotalChunks)
	}
	for i, w := range want {
		if rec.Chunks[i].Content != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, rec.Chunks[i].Content)
		}
	}
}

func TestChunkText_BySeparatorsOverlap(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method:       MethodBySeparators,
		Pages:        []document.PageEntry{{Page: 1, Text: "alpha beta\ngamma delta\nepsilon zeta"}},
		ChunkSize:    24,
		ChunkOverlap: 5,
		Separators:   []string{"\n\n", "\n"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)

	if rec.TotalChunks < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", rec.TotalChunks)
	}
	for i := 0; i+1 < len(rec.Chunks); i++ {
		tail := lastRunes(rec.Chunks[i].Content, 5)
		if !strings.HasPrefix(rec.Chunks[i+1].Content, tail) {
			t.Errorf("chunk %d does not start with trailing %q of chunk %d: %q", i+1, tail, i, rec.Chunks[i+1].Content)
		}
	}
	if rec.Chunks[0].Content != "alpha beta\ngamma delta\n" {
		t.Errorf("unexpected first chunk %q", rec.Chunks[0].Content)
	}
	if rec.Chunks[1].Content != "elta\nepsilon zeta" {
		t.Errorf("unexpected second chunk %q", rec.Chunks[1].Content)
	}
}

func TestChunkText_BySentencesShortSentenceBeforeLongOne(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method:       MethodBySentences,
		Pages:        []document.PageEntry{{Page: 1, Text: "Short one. " + words(60)}},
		ChunkSize:    50,
		ChunkOverlap: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)

	if rec.TotalChunks < 3 {
		t.Fatalf("expected several chunks, got %d", rec.TotalChunks)
	}
	if !strings.HasPrefix(rec.Chunks[0].Content, "Short one. w0 ") {
		t.Errorf("expected short sentence merged into first chunk, got %q", rec.Chunks[0].Content)
	}
	for i := 0; i+1 < len(rec.Chunks); i++ {
		cur, next := rec.Chunks[i].Content, rec.Chunks[i+1].Content
		if runeLen(cur) > 50 {
			t.Errorf("chunk %d exceeds 50 runes: %q", i, cur)
		}
		if strings.HasPrefix(next, cur) {
			t.Errorf("chunk %d repeated whole at start of chunk %d", i, i+1)
		}
		if tail := lastRunes(cur, 20); !strings.HasPrefix(next, tail) {
			t.Errorf("chunk %d does not start with trailing %q of chunk %d: %q", i+1, tail, i, next)
		}
	}
}

func TestChunkText_BySeparatorsDefaults(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	rec, err := testEngine().ChunkText(Request{
		Method:       MethodBySeparators,
		Pages:        []document.PageEntry{{Page: 1, Text: text}},
		ChunkSize:    200,
		ChunkOverlap: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)
	if rec.TotalChunks < 2 {
		t.Fatalf("expected several chunks, got %d", rec.TotalChunks)
	}
	for _, c := range rec.Chunks {
		if n := len([]rune(c.Content)); n > 200 {
			t.Errorf("chunk %d has %d runes, exceeds 200", c.Metadata.ChunkID, n)
		}
	}
}

func TestChunkText_BySentences(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method:    MethodBySentences,
		Pages:     []document.PageEntry{{Page: 1, Text: "One two three. Four five six. Seven eight nine."}},
		ChunkSize: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, rec)

	want := []string{"One two three.", " Four five six.", " Seven eight nine."}
	if rec.TotalChunks != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), rec.TotalChunks, rec.Chunks)
	}
	for i, w := range want {
		if rec.Chunks[i].Content != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, rec.Chunks[i].Content)
		}
	}
}

func TestChunkText_ContiguousIDsAcrossPages(t *testing.T) {
	pages := []document.PageEntry{
		{Page: 1, Text: words(20)},
		{Page: 2, Text: ""},
		{Page: 3, Text: words(7)},
		{Page: 4, Text: words(13)},
	}
	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			req := DefaultRequest(m)
			req.Pages = pages
			req.ChunkSize = 30
			req.ChunkOverlap = 6
			rec, err := testEngine().ChunkText(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkInvariants(t, rec)
			if rec.TotalPages != len(pages) {
				t.Errorf("expected total_pages %d, got %d", len(pages), rec.TotalPages)
			}
			lastPage := 0
			for _, c := range rec.Chunks {
				if c.Metadata.PageNumber < lastPage {
					t.Errorf("chunk %d from page %d after page %d", c.Metadata.ChunkID, c.Metadata.PageNumber, lastPage)
				}
				lastPage = c.Metadata.PageNumber
			}
		})
	}
}

func TestChunkText_UnsupportedMethod(t *testing.T) {
	rec, err := testEngine().ChunkText(Request{
		Method: "by_magic",
		Pages:  []document.PageEntry{{Page: 1, Text: "text"}},
	})
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}
}

func TestChunkText_EmptyPageMap(t *testing.T) {
	for name, pages := range map[string][]document.PageEntry{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := testEngine().ChunkText(Request{Method: MethodByPages, Pages: pages})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if rec != nil {
				t.Errorf("expected no record, got %+v", rec)
			}
		})
	}
}

func TestChunkText_OverlapLargerThanSize(t *testing.T) {
	_, err := testEngine().ChunkText(Request{
		Method:       MethodBySentences,
		Pages:        []document.PageEntry{{Page: 1, Text: "a. b. c."}},
		ChunkSize:    10,
		ChunkOverlap: 11,
	})
	if !errors.Is(err, ErrSplitFailure) {
		t.Fatalf("expected ErrSplitFailure, got %v", err)
	}
}

func TestChunkText_RecordMetadata(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	rec, err := testEngine(WithClock(func() time.Time { return fixed })).ChunkText(Request{
		Method:   MethodByPages,
		Metadata: document.Metadata{Filename: "report.txt", LoadingMethod: "text"},
		Pages:    []document.PageEntry{{Page: 1, Text: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Filename != "report.txt" {
		t.Errorf("expected filename %q, got %q", "report.txt", rec.Filename)
	}
	if rec.LoadingMethod != "text" {
		t.Errorf("expected loading_method %q, got %q", "text", rec.LoadingMethod)
	}
	if rec.ChunkingMethod != "by_pages" {
		t.Errorf("expected chunking_method %q, got %q", "by_pages", rec.ChunkingMethod)
	}
	if rec.Timestamp != "2024-03-01T10:30:00.000000Z" {
		t.Errorf("unexpected timestamp %q", rec.Timestamp)
	}
}

func TestChunkText_ParallelMatchesSequential(t *testing.T) {
	var pages []document.PageEntry
	for i := 1; i <= 25; i++ {
		pages = append(pages, document.PageEntry{
			Page: i,
			Text: strings.Repeat(fmt.Sprintf("Sentence %d on this page. ", i), i),
		})
	}
	req := DefaultRequest(MethodBySentences)
	req.Pages = pages
	req.ChunkSize = 80
	req.ChunkOverlap = 10

	seq, err := testEngine().ChunkText(req)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := testEngine(WithWorkers(4)).ChunkText(req)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	checkInvariants(t, par)
	if !reflect.DeepEqual(seq.Chunks, par.Chunks) {
		t.Error("parallel chunks differ from sequential chunks")
	}
}

func TestMethod_IsSupported(t *testing.T) {
	if !MethodFixedSize.IsSupported() {
		t.Error("expected fixed_size to be supported")
	}
	if Method("by_magic").IsSupported() {
		t.Error("expected by_magic to be unsupported")
	}
}

func TestSafeSplit_RecoversPanic(t *testing.T) {
	_, err := safeSplit(func(string) []string { panic("boom") }, "text")
	if !errors.Is(err, ErrSplitFailure) {
		t.Fatalf("expected ErrSplitFailure, got %v", err)
	}
}
