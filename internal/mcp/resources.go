package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── blueprint://projects ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"blueprint://projects",
		"All Projects",
		mcp.WithMIMEType("application/json"),
	), s.handleProjectsResource)

	// ── blueprint://page/{pageId}/tree ─────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"blueprint://page/{pageId}/tree",
			"Node Tree of a Page",
		),
		s.handlePageTreeResource,
	)
}

func (s *Server) handleProjectsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	state := s.docs.State()

	type projectSummary struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Pages   int    `json:"pages"`
		Current bool   `json:"current,omitempty"`
	}

	var summaries []projectSummary
	for _, p := range state.Projects {
		summaries = append(summaries, projectSummary{
			ID:      p.ID,
			Name:    p.Name,
			Pages:   len(p.Pages),
			Current: p.ID == state.CurrentProjectID,
		})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "blueprint://projects",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageTreeResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := extractPageIDFromURI(uri)
	if pageID == "" {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}

	page, err := s.resolvePage(pageID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(page.Tree, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractPageIDFromURI extracts the page ID from "blueprint://page/{id}/tree".
func extractPageIDFromURI(uri string) string {
	const prefix = "blueprint://page/"
	const suffix = "/tree"
	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
