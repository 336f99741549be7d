package mcpserver

import (
	"context"
	"fmt"

	"blueprint/internal/domain"
	"blueprint/internal/engine"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNodeTools() {
	// ── list_tree ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_tree",
		mcp.WithDescription("Show the node tree of a page as an indented outline with ids"),
		mcp.WithString("pageId", mcp.Description("Page ID (defaults to the current page)")),
	), s.handleListTree)

	// ── get_node ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("Get a node's full JSON including props, children, and interactions"),
		mcp.WithString("nodeId", mcp.Description("ID of the node"), mcp.Required()),
	), s.handleGetNode)

	// ── insert_node ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("insert_node",
		mcp.WithDescription("Insert a new element on the current page. Grid parents auto-balance column spans."),
		mcp.WithString("type",
			mcp.Description("Component type (grid, container, form, list, button, text, heading, image, input, link, divider)"),
			mcp.Required(),
		),
		mcp.WithString("name", mcp.Description("Display name (optional)")),
		mcp.WithString("parentId", mcp.Description("Parent node ID (defaults to the page root)")),
		mcp.WithNumber("index", mcp.Description("Insertion index among siblings (default: append)")),
		mcp.WithString("props", mcp.Description("JSON object of props merged over the type defaults (optional)")),
	), s.handleInsertNode)

	// ── update_props ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_props",
		mcp.WithDescription("Merge props into one node (e.g. {\"label\":\"Save\",\"colSpan\":6})"),
		mcp.WithString("nodeId", mcp.Description("ID of the node"), mcp.Required()),
		mcp.WithString("props", mcp.Description("JSON object of props to merge"), mcp.Required()),
	), s.handleUpdateProps)

	// ── rename_node ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_node",
		mcp.WithDescription("Set a node's display name"),
		mcp.WithString("nodeId", mcp.Description("ID of the node"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenameNode)

	// ── remove_node ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_node",
		mcp.WithDescription("Delete a node and its whole subtree (requires user approval)"),
		mcp.WithString("nodeId", mcp.Description("ID of the node to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveNode)

	// ── duplicate_node ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_node",
		mcp.WithDescription("Duplicate a node subtree right after the original"),
		mcp.WithString("nodeId", mcp.Description("ID of the node"), mcp.Required()),
	), s.handleDuplicateNode)

	// ── move_node ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_node",
		mcp.WithDescription("Swap a node with its previous or next sibling"),
		mcp.WithString("nodeId", mcp.Description("ID of the node"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("\"up\" or \"down\""), mcp.Required()),
	), s.handleMoveNode)

	// ── reorder_node ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_node",
		mcp.WithDescription("Move a node relative to another node (drag-and-drop semantics)"),
		mcp.WithString("activeId", mcp.Description("ID of the node being moved"), mcp.Required()),
		mcp.WithString("overId", mcp.Description("ID of the reference node"), mcp.Required()),
		mcp.WithString("position", mcp.Description("\"before\", \"after\", or \"inside\""), mcp.Required()),
	), s.handleReorderNode)

	// ── set_page_tree ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_page_tree",
		mcp.WithDescription("Replace a page's entire node tree with a JSON document (requires user approval)"),
		mcp.WithString("pageId", mcp.Description("Page ID (defaults to the current page)")),
		mcp.WithString("tree", mcp.Description("JSON node tree: {type, name, props, children}"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleSetPageTree)

	// ── add_interaction ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_interaction",
		mcp.WithDescription("Add a trigger→action interaction to a node (e.g. click → navigate)"),
		mcp.WithString("nodeId", mcp.Description("ID of the node"), mcp.Required()),
		mcp.WithString("trigger", mcp.Description("Trigger: click, hover, load"), mcp.Required()),
		mcp.WithString("action", mcp.Description("Action: navigate, open-url, toggle-visibility"), mcp.Required()),
		mcp.WithString("targetId", mcp.Description("Target node or page ID (optional)")),
		mcp.WithString("value", mcp.Description("Action value, e.g. a URL (optional)")),
	), s.handleAddInteraction)
}

func (s *Server) handleListTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetString("pageId", ""))
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Page %q (%s):\n%s", page.Name, page.ID, treeOutline(page.Tree))), nil
}

func (s *Server) handleGetNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.findNode(req.GetString("nodeId", ""))
	if err != nil {
		return nil, err
	}
	return jsonResult(n)
}

func (s *Server) handleInsertNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	nodeType := req.GetString("type", "")
	if nodeType == "" {
		return nil, fmt.Errorf("type is required")
	}

	name := req.GetString("name", "")
	if name == "" {
		name = nodeType
	}
	node := engine.NewNode(s.registry, s.gen, nodeType, name)

	if propsJSON := req.GetString("props", ""); propsJSON != "" {
		var props map[string]any
		if err := parseJSON(propsJSON, &props); err != nil {
			return nil, fmt.Errorf("invalid props JSON: %w", err)
		}
		for k, v := range props {
			node.Props[k] = v
		}
	}

	index := -1
	if raw, ok := args["index"].(float64); ok {
		index = int(raw)
	}

	cmd := engine.InsertNode{
		Node:     node,
		ParentID: req.GetString("parentId", ""),
		Index:    index,
	}
	if err := s.dispatch(cmd, "insert node"); err != nil {
		return nil, err
	}
	return jsonResult(summarizeNode(node))
}

func (s *Server) handleUpdateProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := req.GetString("nodeId", "")
	var props map[string]any
	if err := parseJSON(req.GetString("props", ""), &props); err != nil {
		return nil, fmt.Errorf("invalid props JSON: %w", err)
	}
	if err := s.dispatch(engine.UpdateProps{NodeID: nodeID, Props: props}, "update props"); err != nil {
		return nil, err
	}
	n, err := s.findNode(nodeID)
	if err != nil {
		return nil, err
	}
	return jsonResult(n)
}

func (s *Server) handleRenameNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := req.GetString("nodeId", "")
	name := req.GetString("name", "")
	if nodeID == "" || name == "" {
		return nil, fmt.Errorf("nodeId and name are required")
	}
	if err := s.dispatch(engine.RenameNode{NodeID: nodeID, Name: name}, "rename node"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Renamed node %s to %q", nodeID, name)), nil
}

func (s *Server) handleRemoveNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.findNode(req.GetString("nodeId", ""))
	if err != nil {
		return nil, err
	}
	if n.ID == domain.RootNodeID {
		return nil, fmt.Errorf("the page root cannot be removed")
	}

	desc := fmt.Sprintf("Delete %s %q and its %d descendant(s)", n.Type, n.Name, countDescendants(n))
	approved, err := s.approval.Request("remove_node", desc, fmt.Sprintf(`{"nodeIds":["%s"]}`, n.ID))
	if err != nil || !approved {
		return nil, err
	}

	if err := s.dispatch(engine.RemoveNode{NodeID: n.ID}, "remove node"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Removed node %s", n.ID)), nil
}

func (s *Server) handleDuplicateNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := req.GetString("nodeId", "")
	if err := s.dispatch(engine.DuplicateNode{NodeID: nodeID}, "duplicate node"); err != nil {
		return nil, err
	}
	page, err := s.resolvePage("")
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Duplicated node %s. Updated tree:\n%s", nodeID, treeOutline(page.Tree))), nil
}

func (s *Server) handleMoveNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := req.GetString("nodeId", "")
	direction := req.GetString("direction", "")
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("direction must be \"up\" or \"down\"")
	}
	if err := s.dispatch(engine.MoveNode{NodeID: nodeID, Direction: direction}, "move node"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Moved node %s %s", nodeID, direction)), nil
}

func (s *Server) handleReorderNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := engine.ReorderNode{
		ActiveID: req.GetString("activeId", ""),
		OverID:   req.GetString("overId", ""),
		Position: req.GetString("position", ""),
	}
	if cmd.Position != "before" && cmd.Position != "after" && cmd.Position != "inside" {
		return nil, fmt.Errorf("position must be \"before\", \"after\", or \"inside\"")
	}
	if err := s.dispatch(cmd, "reorder node"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Moved %s %s %s", cmd.ActiveID, cmd.Position, cmd.OverID)), nil
}

func (s *Server) handleSetPageTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	var root domain.Node
	if err := parseJSON(req.GetString("tree", ""), &root); err != nil {
		return nil, fmt.Errorf("invalid tree JSON: %w", err)
	}
	assignMissingIDs(&root, s.gen)

	page, err := s.resolvePage(pageID)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Replace the entire tree of page %q (%d existing nodes)", page.Name, countDescendants(page.Tree)+1)
	approved, err := s.approval.Request("set_page_tree", desc, fmt.Sprintf(`{"pageId":"%s"}`, page.ID))
	if err != nil || !approved {
		return nil, err
	}

	if err := s.dispatch(engine.SetPageTree{PageID: pageID, Tree: &root}, "set page tree"); err != nil {
		return nil, err
	}
	updated, err := s.resolvePage(pageID)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Replaced tree of page %q:\n%s", updated.Name, treeOutline(updated.Tree))), nil
}

func (s *Server) handleAddInteraction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := engine.AddInteraction{
		NodeID:   req.GetString("nodeId", ""),
		Trigger:  req.GetString("trigger", ""),
		Action:   req.GetString("action", ""),
		TargetID: req.GetString("targetId", ""),
		Value:    req.GetString("value", ""),
	}
	if cmd.NodeID == "" || cmd.Trigger == "" || cmd.Action == "" {
		return nil, fmt.Errorf("nodeId, trigger, and action are required")
	}
	if err := s.dispatch(cmd, "add interaction"); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Added %s→%s interaction to node %s", cmd.Trigger, cmd.Action, cmd.NodeID)), nil
}

// countDescendants counts nodes below n.
func countDescendants(n *domain.Node) int {
	count := 0
	for _, c := range n.Children {
		count += 1 + countDescendants(c)
	}
	return count
}

// assignMissingIDs fills in ids for agent-authored trees, which usually
// specify types and props but not ids.
func assignMissingIDs(n *domain.Node, gen domain.IDGenerator) {
	if n.ID == "" {
		n.ID = gen()
	}
	if n.Props == nil {
		n.Props = map[string]any{}
	}
	for _, c := range n.Children {
		assignMissingIDs(c, gen)
	}
}
