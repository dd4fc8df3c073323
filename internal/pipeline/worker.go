package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/loader"
	"github.com/dgallion1/docchunk/internal/stats"
)

// Worker processes a single document job.
type Worker struct {
	engine *chunker.Engine
	stats  *stats.Latency
	log    *slog.Logger
}

func NewWorker(engine *chunker.Engine, st *stats.Latency, log *slog.Logger) *Worker {
	return &Worker{engine: engine, stats: st, log: log}
}

// Process loads the uploaded file into a page map and chunks it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.Fail("queued", err)
		return
	}

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	l, err := loader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("loading", err)
		return
	}

	doc, err := l.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.Fail("loading", fmt.Errorf("load: %w", err))
		return
	}
	job.setContentHash(ContentHashHex([]byte(doc.Text)))

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	req := job.Request()
	req.Text = doc.Text
	req.Pages = doc.Pages
	req.Metadata = doc.Metadata

	start := time.Now()
	rec, err := w.engine.ChunkText(req)
	if err != nil {
		job.Fail("chunking", err)
		return
	}
	if w.stats != nil {
		w.stats.Record(string(req.Method), time.Since(start), rec.TotalChunks)
	}
	if err := rec.Validate(); err != nil {
		log.Error("invalid record", "error", err)
		job.Fail("chunking", err)
		return
	}

	log.Info("chunked document", "method", req.Method, "pages", rec.TotalPages, "chunks", rec.TotalChunks)
	job.Complete(rec)
}
