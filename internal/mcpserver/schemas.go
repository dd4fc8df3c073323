package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
)

func chunkDocumentTool(cfg config.Config) mcp.Tool {
	methods := make([]string, len(chunker.Methods))
	for i, m := range chunker.Methods {
		methods[i] = string(m)
	}
	return mcp.Tool{
		Name:        "chunk_document",
		Description: "Split a loaded document's page map into numbered chunks with page provenance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page_map": map[string]interface{}{
					"type":        "array",
					"description": "Pages in reading order",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"page": map[string]interface{}{"type": "integer", "minimum": 1},
							"text": map[string]interface{}{"type": "string"},
						},
						"required": []string{"page", "text"},
					},
				},
				"method": map[string]interface{}{
					"type":        "string",
					"description": "Chunking strategy",
					"enum":        methods,
					"default":     cfg.DefaultMethod,
				},
				"chunk_size": map[string]interface{}{
					"type":        "integer",
					"description": "Character budget per chunk",
					"default":     cfg.DefaultChunkSize,
				},
				"chunk_overlap": map[string]interface{}{
					"type":        "integer",
					"description": "Characters shared by consecutive chunks; must be smaller than chunk_size",
					"default":     cfg.DefaultChunkOverlap,
					"minimum":     0,
				},
				"separators": map[string]interface{}{
					"type":        "array",
					"description": "Separator priority list for by_separators",
					"items":       map[string]interface{}{"type": "string"},
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Whole-document text as produced by the loader (informational)",
				},
				"metadata": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"filename":       map[string]interface{}{"type": "string"},
						"loading_method": map[string]interface{}{"type": "string"},
					},
				},
			},
			Required: []string{"page_map"},
		},
	}
}

func listMethodsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_chunking_methods",
		Description: "List supported chunking methods and the configured defaults",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func chunkingStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunking_stats",
		Description: "Latency and chunk counts for chunk_document calls served by this process",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
