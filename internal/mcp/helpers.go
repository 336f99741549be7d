package mcpserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"blueprint/internal/domain"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// splitIDs parses a comma-separated id list, trimming whitespace.
func splitIDs(csv string) []string {
	parts := strings.Split(csv, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// boolPtr is a helper for tool annotations.
func boolPtr(b bool) *bool {
	return &b
}

// nodeSummary is the compact node shape returned by tools, small enough
// to keep large trees readable in tool output.
type nodeSummary struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	ColSpan  int    `json:"colSpan,omitempty"`
	Children int    `json:"children,omitempty"`
}

func summarizeNode(n *domain.Node) nodeSummary {
	return nodeSummary{
		ID:       n.ID,
		Type:     n.Type,
		Name:     n.Name,
		ColSpan:  n.PropInt("colSpan", 0),
		Children: len(n.Children),
	}
}

// treeOutline renders a tree as an indented text outline, one node per
// line. Agents navigate this far better than deeply nested JSON.
func treeOutline(root *domain.Node) string {
	var b strings.Builder
	outlineNode(&b, root, 0)
	return b.String()
}

func outlineNode(b *strings.Builder, n *domain.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.Name != "" {
		fmt.Fprintf(b, "- [%s] %s (id: %s)", n.Type, n.Name, n.ID)
	} else {
		fmt.Fprintf(b, "- [%s] (id: %s)", n.Type, n.ID)
	}
	if span := n.PropInt("colSpan", 0); span > 0 {
		fmt.Fprintf(b, " span=%d", span)
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		outlineNode(b, c, depth+1)
	}
}
