package storage

import (
	"encoding/json"
	"fmt"

	"blueprint/internal/domain"
)

// MigrateProject parses a stored or imported project document and upgrades
// it to the current schema version. It is deliberately forgiving: missing
// trees are synthesized, foreign-rooted trees are wrapped under a fresh
// protected root, and nil prop maps are initialized, so a hand-edited or
// truncated import still loads.
func MigrateProject(raw []byte) (domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Project{}, fmt.Errorf("parse project document: %w", err)
	}
	if p.ID == "" {
		return domain.Project{}, fmt.Errorf("project document missing id")
	}
	if p.Version > domain.SchemaVersion {
		return domain.Project{}, fmt.Errorf("project %s: unsupported schema version %d", p.ID, p.Version)
	}

	if p.Name == "" {
		p.Name = "Imported Project"
	}
	if len(p.Pages) == 0 {
		p.Pages = []domain.Page{domain.NewPage(p.ID+"-page-1", "Page 1")}
	}

	for i := range p.Pages {
		page := &p.Pages[i]
		if page.Tree == nil {
			page.Tree = domain.NewRootNode()
			continue
		}
		if page.Tree.ID != domain.RootNodeID {
			wrap := domain.NewRootNode()
			wrap.Children = []*domain.Node{page.Tree}
			page.Tree = wrap
		}
		normalizeNode(page.Tree, p.Version)
	}
	for i := range p.GlobalComponents {
		if p.GlobalComponents[i].Root != nil {
			normalizeNode(p.GlobalComponents[i].Root, p.Version)
		}
	}

	if p.Page(p.CurrentPageID) == nil {
		p.CurrentPageID = p.Pages[0].ID
	}
	p.Version = domain.SchemaVersion
	return p, nil
}

// normalizeNode repairs a node subtree in place: nil prop maps become
// empty, and version-1 documents get their legacy "span" prop renamed to
// "colSpan".
func normalizeNode(n *domain.Node, fromVersion int) {
	if n.Props == nil {
		n.Props = map[string]any{}
	}
	if fromVersion <= 1 {
		if span, ok := n.Props["span"]; ok {
			if _, exists := n.Props["colSpan"]; !exists {
				n.Props["colSpan"] = span
			}
			delete(n.Props, "span")
		}
	}
	for _, c := range n.Children {
		normalizeNode(c, fromVersion)
	}
}
