package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/loader"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// chunkArgs mirrors the POST /api/chunk body.
type chunkArgs struct {
	Text         string               `json:"text"`
	PageMap      []document.PageEntry `json:"page_map"`
	Metadata     document.Metadata    `json:"metadata"`
	Method       string               `json:"method"`
	ChunkSize    *int                 `json:"chunk_size"`
	ChunkOverlap *int                 `json:"chunk_overlap"`
	Separators   []string             `json:"separators"`
}

func (s *Server) handleChunkDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	// Round-trip through JSON so page_map decodes into typed entries.
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", map[string]interface{}{"error": err.Error()})
	}
	var in chunkArgs
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", map[string]interface{}{"error": err.Error()})
	}
	if err := loader.ValidatePages(in.PageMap); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid page_map", map[string]interface{}{
			"param":  "page_map",
			"reason": err.Error(),
		})
	}

	req := chunker.Request{
		Text:         in.Text,
		Method:       chunker.Method(in.Method),
		Metadata:     in.Metadata,
		Pages:        in.PageMap,
		ChunkSize:    s.cfg.DefaultChunkSize,
		ChunkOverlap: s.cfg.DefaultChunkOverlap,
		Separators:   in.Separators,
	}
	if req.Method == "" {
		req.Method = chunker.Method(s.cfg.DefaultMethod)
	}
	if in.ChunkSize != nil {
		req.ChunkSize = *in.ChunkSize
	}
	if in.ChunkOverlap != nil {
		req.ChunkOverlap = *in.ChunkOverlap
	}

	start := time.Now()
	rec, err := s.engine.ChunkText(req)
	if err != nil {
		code := ErrorCodeInternalError
		if errors.Is(err, chunker.ErrInvalidInput) || errors.Is(err, chunker.ErrUnsupportedMethod) {
			code = ErrorCodeInvalidParams
		}
		return nil, newMCPError(code, "chunking failed", map[string]interface{}{"error": err.Error()})
	}
	if s.stats != nil {
		s.stats.Record(string(req.Method), time.Since(start), rec.TotalChunks)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "encode record", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleListMethods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"methods":               chunker.Methods,
		"default_method":        s.cfg.DefaultMethod,
		"default_chunk_size":    s.cfg.DefaultChunkSize,
		"default_chunk_overlap": s.cfg.DefaultChunkOverlap,
		"default_separators":    chunker.DefaultSeparators,
		"sentence_separators":   chunker.SentenceSeparators,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

func (s *Server) handleChunkingStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.stats == nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking stats unavailable", nil)
	}
	out, err := json.MarshalIndent(s.stats.Snapshot(), "", "  ")
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "encode stats", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(string(out)), nil
}

// newMCPError creates an MCP error; the framework handles encoding.
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
