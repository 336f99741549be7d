package mcpserver

import (
	"context"
	"fmt"

	"blueprint/internal/domain"
	"blueprint/internal/engine"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerProjectTools() {
	// ── list_projects ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects in the workspace"),
	), s.handleListProjects)

	// ── create_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Create a new single-page project and make it current"),
		mcp.WithString("name", mcp.Description("Name of the new project"), mcp.Required()),
	), s.handleCreateProject)

	// ── rename_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_project",
		mcp.WithDescription("Rename a project"),
		mcp.WithString("projectId", mcp.Description("ID of the project"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenameProject)

	// ── set_project_description ────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_project_description",
		mcp.WithDescription("Set a project's description"),
		mcp.WithString("projectId", mcp.Description("ID of the project"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Description text"), mcp.Required()),
	), s.handleSetProjectDescription)

	// ── delete_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("Delete a project and all of its pages (requires user approval)"),
		mcp.WithString("projectId", mcp.Description("ID of the project to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteProject)

	// ── set_current_project ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_current_project",
		mcp.WithDescription("Switch to another project. Page and node tools then address it."),
		mcp.WithString("projectId", mcp.Description("ID of the project"), mcp.Required()),
	), s.handleSetCurrentProject)

	// ── update_project_theme ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_project_theme",
		mcp.WithDescription("Set project-level theme defaults as a JSON object"),
		mcp.WithString("projectId", mcp.Description("ID of the project"), mcp.Required()),
		mcp.WithString("theme", mcp.Description("JSON theme object"), mcp.Required()),
	), s.handleUpdateProjectTheme)

	// ── update_project_layout ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_project_layout",
		mcp.WithDescription("Set project-wide grid defaults used by the layout assistant"),
		mcp.WithString("projectId", mcp.Description("ID of the project"), mcp.Required()),
		mcp.WithNumber("columns", mcp.Description("Grid column count (default 12)"), mcp.Required()),
		mcp.WithNumber("gap", mcp.Description("Grid gap in pixels"), mcp.Required()),
	), s.handleUpdateProjectLayout)
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.docs.State()
	type projectSummary struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Pages   int    `json:"pages"`
		Example bool   `json:"example,omitempty"`
		Current bool   `json:"current,omitempty"`
	}
	summaries := make([]projectSummary, len(state.Projects))
	for i, p := range state.Projects {
		summaries[i] = projectSummary{
			ID:      p.ID,
			Name:    p.Name,
			Pages:   len(p.Pages),
			Example: p.IsExampleProject,
			Current: p.ID == state.CurrentProjectID,
		}
	}
	return jsonResult(summaries)
}

func (s *Server) handleCreateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := s.dispatch(engine.CreateProject{Name: name}, "create project"); err != nil {
		return nil, err
	}
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Created project %q (id: %s), now current", name, p.ID)), nil
}

func (s *Server) handleRenameProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	name := req.GetString("name", "")
	if projectID == "" || name == "" {
		return nil, fmt.Errorf("projectId and name are required")
	}
	if err := s.dispatch(engine.RenameProject{ProjectID: projectID, Name: name}, "rename project"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Renamed project %s to %q", projectID, name)), nil
}

func (s *Server) handleSetProjectDescription(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := engine.UpdateProjectDescription{
		ProjectID:   req.GetString("projectId", ""),
		Description: req.GetString("description", ""),
	}
	if err := s.dispatch(cmd, "set project description"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Updated description of project %s", cmd.ProjectID)), nil
}

func (s *Server) handleDeleteProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	state := s.docs.State()
	var target *domain.Project
	for i := range state.Projects {
		if state.Projects[i].ID == projectID {
			target = &state.Projects[i]
		}
	}
	if target == nil {
		return nil, fmt.Errorf("project not found: %s", projectID)
	}

	desc := fmt.Sprintf("Delete project %q with %d page(s)", target.Name, len(target.Pages))
	approved, err := s.approval.Request("delete_project", desc, fmt.Sprintf(`{"projectId":"%s"}`, projectID))
	if err != nil || !approved {
		return nil, err
	}

	if err := s.dispatch(engine.DeleteProject{ProjectID: projectID}, "delete project"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted project %s", projectID)), nil
}

func (s *Server) handleSetCurrentProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	if projectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}
	if err := s.dispatch(engine.SetCurrentProject{ProjectID: projectID}, "set current project"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Current project set to %s", projectID)), nil
}

func (s *Server) handleUpdateProjectTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	var theme map[string]any
	if err := parseJSON(req.GetString("theme", ""), &theme); err != nil {
		return nil, fmt.Errorf("invalid theme JSON: %w", err)
	}
	if err := s.dispatch(engine.UpdateProjectTheme{ProjectID: projectID, Theme: theme}, "update project theme"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Updated theme of project %s", projectID)), nil
}

func (s *Server) handleUpdateProjectLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	projectID := req.GetString("projectId", "")
	columns, _ := args["columns"].(float64)
	gap, _ := args["gap"].(float64)
	if columns < 1 {
		return nil, fmt.Errorf("columns must be at least 1")
	}
	cmd := engine.UpdateProjectLayout{
		ProjectID: projectID,
		Layout:    domain.LayoutDefaults{Columns: int(columns), Gap: int(gap)},
	}
	if err := s.dispatch(cmd, "update project layout"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Updated layout defaults of project %s (%d columns, %dpx gap)", projectID, int(columns), int(gap))), nil
}
