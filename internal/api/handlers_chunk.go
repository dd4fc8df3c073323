package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/loader"
)

// chunkRequest is the JSON body of POST /api/chunk. Omitted sizes fall back
// to the configured defaults.
type chunkRequest struct {
	Text         string               `json:"text"`
	PageMap      []document.PageEntry `json:"page_map"`
	Metadata     document.Metadata    `json:"metadata"`
	Method       string               `json:"method"`
	ChunkSize    *int                 `json:"chunk_size"`
	ChunkOverlap *int                 `json:"chunk_overlap"`
	Separators   []string             `json:"separators"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var body chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := loader.ValidatePages(body.PageMap); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := s.baseRequest(body.Method, body.ChunkSize, body.ChunkOverlap, body.Separators)
	req.Text = body.Text
	req.Pages = body.PageMap
	req.Metadata = body.Metadata

	start := time.Now()
	rec, err := s.engine.ChunkText(req)
	if err != nil {
		jsonError(w, err.Error(), statusForChunkError(err))
		return
	}
	if s.stats != nil {
		s.stats.Record(string(req.Method), time.Since(start), rec.TotalChunks)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"methods":            chunker.Methods,
		"default_method":     s.cfg.DefaultMethod,
		"default_separators": chunker.DefaultSeparators,
	})
}

// baseRequest applies configured defaults to the caller's parameters.
func (s *Server) baseRequest(method string, size, overlap *int, separators []string) chunker.Request {
	req := chunker.Request{
		Method:       chunker.Method(method),
		ChunkSize:    s.cfg.DefaultChunkSize,
		ChunkOverlap: s.cfg.DefaultChunkOverlap,
		Separators:   separators,
	}
	if req.Method == "" {
		req.Method = chunker.Method(s.cfg.DefaultMethod)
	}
	if size != nil {
		req.ChunkSize = *size
	}
	if overlap != nil {
		req.ChunkOverlap = *overlap
	}
	return req
}

func statusForChunkError(err error) int {
	switch {
	case errors.Is(err, chunker.ErrInvalidInput), errors.Is(err, chunker.ErrUnsupportedMethod):
		return http.StatusBadRequest
	case errors.Is(err, chunker.ErrSplitFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
