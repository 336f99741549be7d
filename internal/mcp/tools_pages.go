package mcpserver

import (
	"context"
	"fmt"

	"blueprint/internal/engine"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages of the current project"),
	), s.handleListPages)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Add a page to the current project and make it current"),
		mcp.WithString("name", mcp.Description("Name of the new page"), mcp.Required()),
	), s.handleAddPage)

	// ── rename_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_page",
		mcp.WithDescription("Rename a page"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenamePage)

	// ── duplicate_page ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_page",
		mcp.WithDescription("Duplicate a page with a deep copy of its tree and make the copy current"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
	), s.handleDuplicatePage)

	// ── delete_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page and everything on it (requires user approval)"),
		mcp.WithString("pageId", mcp.Description("ID of the page to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)

	// ── set_current_page ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_current_page",
		mcp.WithDescription("Navigate to a page. Node tools then address that page's tree."),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
	), s.handleSetCurrentPage)

	// ── reorder_pages ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_pages",
		mcp.WithDescription("Reorder the current project's pages. Must list every page id exactly once."),
		mcp.WithString("pageIds", mcp.Description("Comma-separated page ids in the new order"), mcp.Required()),
	), s.handleReorderPages)

	// ── update_page_theme ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_page_theme",
		mcp.WithDescription("Set a page's theme override as a JSON object"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithString("theme", mcp.Description("JSON theme object, e.g. {\"background\":\"#0f172a\"}"), mcp.Required()),
	), s.handleUpdatePageTheme)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	type pageSummary struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Nodes   int    `json:"nodes"`
		Current bool   `json:"current,omitempty"`
	}
	summaries := make([]pageSummary, len(p.Pages))
	for i, page := range p.Pages {
		summaries[i] = pageSummary{
			ID:      page.ID,
			Name:    page.Name,
			Nodes:   countDescendants(page.Tree) + 1,
			Current: page.ID == p.CurrentPageID,
		}
	}
	return jsonResult(summaries)
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := s.dispatch(engine.AddPage{Name: name}, "add page"); err != nil {
		return nil, err
	}
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Added page %q (id: %s), now current", name, p.CurrentPageID)), nil
}

func (s *Server) handleRenamePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	name := req.GetString("name", "")
	if pageID == "" || name == "" {
		return nil, fmt.Errorf("pageId and name are required")
	}
	if err := s.dispatch(engine.RenamePage{PageID: pageID, Name: name}, "rename page"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Renamed page %s to %q", pageID, name)), nil
}

func (s *Server) handleDuplicatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if err := s.dispatch(engine.DuplicatePage{PageID: pageID}, "duplicate page"); err != nil {
		return nil, err
	}
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Duplicated page %s; the copy (id: %s) is now current", pageID, p.CurrentPageID)), nil
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetString("pageId", ""))
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Delete page %q with %d node(s)", page.Name, countDescendants(page.Tree)+1)
	approved, err := s.approval.Request("delete_page", desc, fmt.Sprintf(`{"pageId":"%s"}`, page.ID))
	if err != nil || !approved {
		return nil, err
	}

	if err := s.dispatch(engine.DeletePage{PageID: page.ID}, "delete page"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted page %s", page.ID)), nil
}

func (s *Server) handleSetCurrentPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	if err := s.dispatch(engine.SetCurrentPage{PageID: pageID}, "set current page"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Current page set to %s", pageID)), nil
}

func (s *Server) handleReorderPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("pageIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("pageIds is required")
	}
	if err := s.dispatch(engine.ReorderPages{PageIDs: ids}, "reorder pages"); err != nil {
		return nil, err
	}
	return textResult("Pages reordered"), nil
}

func (s *Server) handleUpdatePageTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	var theme map[string]any
	if err := parseJSON(req.GetString("theme", ""), &theme); err != nil {
		return nil, fmt.Errorf("invalid theme JSON: %w", err)
	}
	if err := s.dispatch(engine.UpdatePageTheme{PageID: pageID, Theme: theme}, "update page theme"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Updated theme of page %s", pageID)), nil
}
