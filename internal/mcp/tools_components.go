package mcpserver

import (
	"context"
	"fmt"

	"blueprint/internal/engine"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerComponentTools() {
	// ── list_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List the current project's reusable global components"),
	), s.handleListComponents)

	// ── make_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("make_component",
		mcp.WithDescription("Capture a node subtree as a reusable global component; the original becomes an instance"),
		mcp.WithString("nodeId", mcp.Description("ID of the node to capture"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Component name"), mcp.Required()),
	), s.handleMakeComponent)

	// ── insert_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("insert_component",
		mcp.WithDescription("Insert an instance of a global component on the current page"),
		mcp.WithString("componentId", mcp.Description("ID of the global component"), mcp.Required()),
		mcp.WithString("parentId", mcp.Description("Parent node ID (defaults to the page root)")),
		mcp.WithNumber("index", mcp.Description("Insertion index among siblings (default: append)")),
	), s.handleInsertComponent)

	// ── detach_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("detach_component",
		mcp.WithDescription("Replace a component instance with an editable copy of its definition"),
		mcp.WithString("nodeId", mcp.Description("ID of the instance node"), mcp.Required()),
	), s.handleDetachComponent)

	// ── delete_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_component",
		mcp.WithDescription("Delete a global component definition; existing instances render empty (requires user approval)"),
		mcp.WithString("componentId", mcp.Description("ID of the global component"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteComponent)
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	type componentSummary struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Nodes int    `json:"nodes"`
	}
	summaries := make([]componentSummary, len(p.GlobalComponents))
	for i, c := range p.GlobalComponents {
		summaries[i] = componentSummary{ID: c.ID, Name: c.Name, Nodes: countDescendants(c.Root) + 1}
	}
	return jsonResult(summaries)
}

func (s *Server) handleMakeComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := req.GetString("nodeId", "")
	name := req.GetString("name", "")
	if nodeID == "" || name == "" {
		return nil, fmt.Errorf("nodeId and name are required")
	}
	if err := s.dispatch(engine.MakeGlobalComponent{NodeID: nodeID, Name: name}, "make component"); err != nil {
		return nil, err
	}
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	// The new definition is the last one appended.
	c := p.GlobalComponents[len(p.GlobalComponents)-1]
	return textResult(fmt.Sprintf("Captured component %q (id: %s); node %s is now an instance", c.Name, c.ID, nodeID)), nil
}

func (s *Server) handleInsertComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentID := req.GetString("componentId", "")
	if componentID == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	index := -1
	if raw, ok := args["index"].(float64); ok {
		index = int(raw)
	}
	cmd := engine.InsertComponentInstance{
		ComponentID: componentID,
		ParentID:    req.GetString("parentId", ""),
		Index:       index,
	}
	if err := s.dispatch(cmd, "insert component"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Inserted an instance of component %s", componentID)), nil
}

func (s *Server) handleDetachComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := req.GetString("nodeId", "")
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	if err := s.dispatch(engine.DetachComponentInstance{NodeID: nodeID}, "detach component"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Detached instance %s into a plain subtree", nodeID)), nil
}

func (s *Server) handleDeleteComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	componentID := req.GetString("componentId", "")
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	c := p.Component(componentID)
	if c == nil {
		return nil, fmt.Errorf("component not found: %s", componentID)
	}

	desc := fmt.Sprintf("Delete component %q; existing instances will render empty", c.Name)
	approved, err := s.approval.Request("delete_component", desc, fmt.Sprintf(`{"componentId":"%s"}`, componentID))
	if err != nil || !approved {
		return nil, err
	}

	if err := s.dispatch(engine.DeleteGlobalComponent{ComponentID: componentID}, "delete component"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted component %s", componentID)), nil
}
