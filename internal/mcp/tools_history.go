package mcpserver

import (
	"context"
	"fmt"

	"blueprint/internal/engine"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	// ── undo ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last content edit"),
	), s.handleUndo)

	// ── redo ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone edit"),
	), s.handleRedo)

	// ── save_workspace ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_workspace",
		mcp.WithDescription("Persist the workspace to disk"),
	), s.handleSaveWorkspace)

	// ── workspace_status ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("workspace_status",
		mcp.WithDescription("Report unsaved changes and undo/redo depth"),
	), s.handleWorkspaceStatus)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.docs.Dispatch(engine.Undo{}) {
		return textResult("Nothing to undo"), nil
	}
	past, future := s.docs.HistoryDepths()
	return textResult(fmt.Sprintf("Undone (%d undo, %d redo steps remain)", past, future)), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.docs.Dispatch(engine.Redo{}) {
		return textResult("Nothing to redo"), nil
	}
	past, future := s.docs.HistoryDepths()
	return textResult(fmt.Sprintf("Redone (%d undo, %d redo steps remain)", past, future)), nil
}

func (s *Server) handleSaveWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.docs.Save(); err != nil {
		return nil, fmt.Errorf("save workspace: %w", err)
	}
	return textResult("Workspace saved"), nil
}

func (s *Server) handleWorkspaceStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	past, future := s.docs.HistoryDepths()
	return jsonResult(map[string]any{
		"dirty":     s.docs.Dirty(),
		"undoDepth": past,
		"redoDepth": future,
	})
}
