package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("build_landing_page",
		mcp.WithPromptDescription("Guide through building a landing page on the grid layout"),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product or topic the page is about"),
			mcp.RequiredArgument(),
		),
	), s.handleLandingPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("bind_list_to_data",
		mcp.WithPromptDescription("Wire a list element to a saved data source"),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What data the list should show"),
			mcp.RequiredArgument(),
		),
	), s.handleBindListPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("componentize_page",
		mcp.WithPromptDescription("Extract repeated structures on the current page into reusable components"),
		mcp.WithArgument("pageId",
			mcp.ArgumentDescription("Page to analyze (defaults to the current page)"),
		),
	), s.handleComponentizePrompt)
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for: %s", product),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page for "%s" on the current page. Follow these steps:

1. Use list_tree to see what is already there
2. Insert a heading (insert_node type "heading") with a strong headline
3. Insert a text node with a one-paragraph pitch below it
4. Insert a container with two or three buttons for the primary calls to action
5. Add an image node for the hero visual

Let the grid auto-balance column spans; only set "colSpan" props when a
row needs uneven widths. Use rename_node so every element has a
meaningful name in the layer list.`, product),
				},
			},
		},
	}, nil
}

func (s *Server) handleBindListPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	description := req.Params.Arguments["description"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Bind a list to data: %s", description),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Wire up a data-bound list showing: %s. Follow these steps:

1. Use list_data_sources to find a suitable saved source, and
   test_data_source to confirm it connects
2. Draft a read-only query and check its output with preview_binding
3. Insert a list node (insert_node type "list") where the data belongs
4. Set its binding props with update_props:
   {"dataSource": "<source id>", "dataQuery": "<query>", "dataLimit": 50}

Keep the query small and ordered; the editor refreshes bindings
periodically, so expensive queries slow the whole page down.`, description),
				},
			},
		},
	}, nil
}

func (s *Server) handleComponentizePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pageID := req.Params.Arguments["pageId"]
	target := "the current page"
	if pageID != "" {
		target = fmt.Sprintf("page %s", pageID)
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Componentize %s", target),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Find repeated structures on %s and turn them into reusable components:

1. Use list_tree to inspect the tree and spot subtrees with the same
   shape (same types and props, different text)
2. Pick the best instance of each repeated structure and capture it with
   make_component, giving it a clear name
3. Replace the remaining duplicates: remove_node the duplicate, then
   insert_component at the same position
4. Use list_components at the end to summarize what is now reusable

Do not componentize one-off structures; a component with a single
instance adds indirection for nothing.`, target),
				},
			},
		},
	}, nil
}
