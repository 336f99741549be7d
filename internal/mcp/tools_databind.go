package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDataBindTools() {
	// ── list_data_sources ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_data_sources",
		mcp.WithDescription("List saved data sources usable for list bindings"),
	), s.handleListDataSources)

	// ── test_data_source ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("test_data_source",
		mcp.WithDescription("Verify connectivity to a data source with its stored credentials"),
		mcp.WithString("sourceId", mcp.Description("ID of the data source"), mcp.Required()),
	), s.handleTestDataSource)

	// ── preview_binding ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("preview_binding",
		mcp.WithDescription("Run a read-only binding query against a data source and return the rows"),
		mcp.WithString("sourceId", mcp.Description("ID of the data source"), mcp.Required()),
		mcp.WithString("query", mcp.Description("Read-only query (SELECT for SQL sources, JSON query document for MongoDB)"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Max rows (default 100)")),
	), s.handlePreviewBinding)
}

func (s *Server) handleListDataSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.binds == nil {
		return nil, fmt.Errorf("data binding is not available")
	}
	sources, err := s.binds.ListSources()
	if err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}
	return jsonResult(sources)
}

func (s *Server) handleTestDataSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.binds == nil {
		return nil, fmt.Errorf("data binding is not available")
	}
	sourceID := req.GetString("sourceId", "")
	if sourceID == "" {
		return nil, fmt.Errorf("sourceId is required")
	}
	if err := s.binds.TestSource(ctx, sourceID); err != nil {
		return textResult(fmt.Sprintf("Connection failed: %v", err)), nil
	}
	return textResult("Connection OK"), nil
}

func (s *Server) handlePreviewBinding(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.binds == nil {
		return nil, fmt.Errorf("data binding is not available")
	}
	args := req.GetArguments()
	sourceID := req.GetString("sourceId", "")
	query := req.GetString("query", "")
	if sourceID == "" || query == "" {
		return nil, fmt.Errorf("sourceId and query are required")
	}
	limit := 0
	if raw, ok := args["limit"].(float64); ok {
		limit = int(raw)
	}
	rs, err := s.binds.Fetch(ctx, sourceID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch binding: %w", err)
	}
	return jsonResult(rs)
}
