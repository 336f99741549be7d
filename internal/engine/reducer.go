package engine

import (
	"time"

	"blueprint/internal/domain"
	"blueprint/internal/layout"
	"blueprint/internal/tree"
)

// reduce is the total transition function: it maps (state, command) to a
// new state and reports whether anything changed. A false result means the
// returned value is the untouched input — slice headers and node pointers
// included — so callers can treat it as reference equality.
func (e *Engine) reduce(s domain.AppState, cmd Command) (domain.AppState, bool) {
	switch c := cmd.(type) {
	// Node commands
	case UpdateProps:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.UpdateProps(root, c.NodeID, c.Props)
		})
	case UpdatePropsMulti:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			for _, id := range c.NodeIDs {
				root = tree.UpdateProps(root, id, c.Props)
			}
			return root
		})
	case RenameNode:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.Patch(root, c.NodeID, func(n *domain.Node) *domain.Node {
				cp := tree.ShallowCopy(n)
				cp.Name = c.Name
				return cp
			})
		})
	case InsertNode:
		return e.insertNode(s, c)
	case RemoveNode:
		return e.removeNode(s, c.NodeID)
	case DuplicateNode:
		return e.duplicateNode(s, c)
	case MoveNode:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.Move(root, c.NodeID, tree.Direction(c.Direction))
		})
	case ReorderNode:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.Reorder(root, c.ActiveID, c.OverID, tree.Position(c.Position))
		})
	case SetPageTree:
		return e.setPageTree(s, c)

	// Interactions
	case AddInteraction:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.Patch(root, c.NodeID, func(n *domain.Node) *domain.Node {
				cp := tree.ShallowCopy(n)
				cp.Interactions = append(copyInteractions(n.Interactions), domain.Interaction{
					ID: e.gen(), Trigger: c.Trigger, Action: c.Action, TargetID: c.TargetID, Value: c.Value,
				})
				return cp
			})
		})
	case UpdateInteraction:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.Patch(root, c.NodeID, func(n *domain.Node) *domain.Node {
				idx := interactionIndex(n.Interactions, c.Interaction.ID)
				if idx < 0 {
					return n
				}
				cp := tree.ShallowCopy(n)
				cp.Interactions = copyInteractions(n.Interactions)
				cp.Interactions[idx] = c.Interaction
				return cp
			})
		})
	case RemoveInteraction:
		return e.applyTree(s, func(root *domain.Node) *domain.Node {
			return tree.Patch(root, c.NodeID, func(n *domain.Node) *domain.Node {
				idx := interactionIndex(n.Interactions, c.InteractionID)
				if idx < 0 {
					return n
				}
				cp := tree.ShallowCopy(n)
				cp.Interactions = append(copyInteractions(n.Interactions[:idx]), n.Interactions[idx+1:]...)
				if len(cp.Interactions) == 0 {
					cp.Interactions = nil
				}
				return cp
			})
		})

	// Pages
	case AddPage:
		return e.addPage(s, c)
	case DeletePage:
		return e.deletePage(s, c.PageID)
	case RenamePage:
		return e.renamePage(s, c)
	case DuplicatePage:
		return e.duplicatePage(s, c.PageID)
	case ReorderPages:
		return e.reorderPages(s, c.PageIDs)
	case UpdatePageTheme:
		return e.patchPage(s, c.PageID, func(p domain.Page) domain.Page {
			p.ThemeOverride = c.Theme
			return p
		})
	case UpdatePageCanvas:
		return e.patchPage(s, c.PageID, func(p domain.Page) domain.Page {
			p.Canvas = &domain.CanvasPosition{X: c.X, Y: c.Y}
			return p
		})
	case SetCurrentPage:
		return e.setCurrentPage(s, c.PageID)

	// Projects
	case CreateProject:
		return e.createProject(s, c.Name)
	case DeleteProject:
		return e.deleteProject(s, c.ProjectID)
	case RenameProject:
		return e.renameProject(s, c)
	case UpdateProjectTheme:
		return e.patchProject(s, c.ProjectID, func(p domain.Project) domain.Project {
			p.Theme = c.Theme
			return p
		})
	case UpdateProjectLayout:
		return e.patchProject(s, c.ProjectID, func(p domain.Project) domain.Project {
			defaults := c.Layout
			p.Layout = &defaults
			return p
		})
	case UpdateProjectDescription:
		return e.patchProject(s, c.ProjectID, func(p domain.Project) domain.Project {
			p.Description = c.Description
			return p
		})
	case InstallProject:
		return e.installProject(s, c.Project)
	case SetCurrentProject:
		return e.setCurrentProject(s, c.ProjectID)

	// Global components
	case MakeGlobalComponent:
		return e.makeGlobalComponent(s, c)
	case InsertComponentInstance:
		return e.insertComponentInstance(s, c)
	case UpdateGlobalComponent:
		return e.updateGlobalComponent(s, c)
	case DeleteGlobalComponent:
		return e.deleteGlobalComponent(s, c.ComponentID)
	case DetachComponentInstance:
		return e.detachComponentInstance(s, c.NodeID)

	// Clipboard
	case CopyNode:
		return e.copyNode(s, c.NodeID)
	case CutNode:
		return e.cutNode(s, c.NodeID)
	case PasteNode:
		return e.pasteNode(s, c.ParentID)

	// Selection
	case SetSelection:
		return e.setSelection(s, c.NodeIDs)
	case ToggleSelection:
		return e.toggleSelection(s, c)

	// View / modes
	case ToggleGridLines:
		s.ShowGridLines = !s.ShowGridLines
		return s, true
	case ToggleColumnLines:
		s.ShowColumnLines = !s.ShowColumnLines
		return s, true
	case TogglePlayMode:
		s.PlayMode = !s.PlayMode
		return s, true
	case SetEditingMode:
		return e.setEditingMode(s, c.ComponentID)
	}

	return s, false
}

// ── tree addressing ────────────────────────────────────────

// activeTree returns the tree node commands address: the current page's
// tree, or in isolation mode the edited global component's subtree.
func (e *Engine) activeTree(s domain.AppState) *domain.Node {
	p := s.CurrentProject()
	if p == nil {
		return nil
	}
	if s.EditingComponentID != "" {
		if comp := p.Component(s.EditingComponentID); comp != nil {
			return comp.Root
		}
		return nil
	}
	if page := p.Page(p.CurrentPageID); page != nil {
		return page.Tree
	}
	return nil
}

// withActiveTree writes a new tree root back into the addressed page or
// component definition, path-copying the project and page lists.
func (e *Engine) withActiveTree(s domain.AppState, root *domain.Node) domain.AppState {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s
	}
	p := s.Projects[pi]

	if s.EditingComponentID != "" {
		for ci := range p.GlobalComponents {
			if p.GlobalComponents[ci].ID == s.EditingComponentID {
				comps := make([]domain.GlobalComponent, len(p.GlobalComponents))
				copy(comps, p.GlobalComponents)
				comps[ci].Root = root
				p.GlobalComponents = comps
				return withProject(s, pi, p)
			}
		}
		return s
	}

	for i := range p.Pages {
		if p.Pages[i].ID == p.CurrentPageID {
			page := p.Pages[i]
			page.Tree = root
			return withProject(s, pi, withPage(p, i, page))
		}
	}
	return s
}

// applyTree runs a pure tree transformation against the addressed tree and
// writes the result back. Unchanged roots short-circuit to a no-op.
func (e *Engine) applyTree(s domain.AppState, fn func(*domain.Node) *domain.Node) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil {
		return s, false
	}
	newRoot := fn(root)
	if newRoot == root {
		return s, false
	}
	return e.withActiveTree(s, newRoot), true
}

// ── node handlers ──────────────────────────────────────────

func (e *Engine) insertNode(s domain.AppState, c InsertNode) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil || c.Node == nil {
		return s, false
	}
	parentID := c.ParentID
	if parentID == "" {
		parentID = root.ID
	}
	parent := tree.Find(root, parentID)
	if parent == nil {
		return s, false
	}

	node := c.Node
	cols := 0
	if parent.Type == domain.TypeGrid {
		cols = parent.PropInt("columns", projectColumns(s))
		span := e.assist.SpanFor(cols, len(parent.Children)+1)
		node = tree.ShallowCopy(node)
		node.Props = tree.CopyProps(node.Props)
		node.Props[layout.SpanProp] = span
	}

	newRoot := tree.Insert(root, node, parentID, c.Index)
	if newRoot == root {
		return s, false
	}
	if cols > 0 {
		for _, u := range e.assist.Rebalance(tree.Find(newRoot, parentID), cols) {
			newRoot = tree.UpdateProps(newRoot, u.NodeID, map[string]any{layout.SpanProp: u.Span})
		}
	}

	s = e.withActiveTree(s, newRoot)
	// Structural containers keep the selection so follow-up inserts land in
	// the same place; leaf parents hand it to the new node.
	if domain.AcceptsChildren(e.reg, parent.Type) {
		s.SelectedNodeIDs = []string{parentID}
	} else {
		s.SelectedNodeIDs = []string{node.ID}
	}
	return s, true
}

func (e *Engine) removeNode(s domain.AppState, nodeID string) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil {
		return s, false
	}
	newRoot := tree.Remove(root, nodeID)
	if newRoot == root {
		return s, false
	}
	s = e.withActiveTree(s, newRoot)
	s.SelectedNodeIDs = pruneSelection(s.SelectedNodeIDs, newRoot)
	return s, true
}

func (e *Engine) duplicateNode(s domain.AppState, c DuplicateNode) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil {
		return s, false
	}
	newRoot, cloneID := tree.Duplicate(root, c.NodeID, e.gen)
	if newRoot == root {
		return s, false
	}
	s = e.withActiveTree(s, newRoot)
	s.SelectedNodeIDs = []string{cloneID}
	return s, true
}

func (e *Engine) setPageTree(s domain.AppState, c SetPageTree) (domain.AppState, bool) {
	if c.Tree == nil {
		return s, false
	}
	newTree := c.Tree
	if newTree.ID != domain.RootNodeID {
		// Root protection: whole-tree writes keep the fixed page root.
		wrap := domain.NewRootNode()
		wrap.Children = []*domain.Node{newTree}
		newTree = wrap
	}
	pageID := c.PageID
	if pageID == "" {
		if p := s.CurrentProject(); p != nil {
			pageID = p.CurrentPageID
		}
	}
	return e.patchPage(s, pageID, func(p domain.Page) domain.Page {
		p.Tree = newTree
		return p
	})
}

// ── shared helpers ─────────────────────────────────────────

func projectIndex(s domain.AppState, id string) int {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func withProject(s domain.AppState, idx int, p domain.Project) domain.AppState {
	projects := make([]domain.Project, len(s.Projects))
	copy(projects, s.Projects)
	p.UpdatedAt = time.Now()
	projects[idx] = p
	s.Projects = projects
	return s
}

func withPage(p domain.Project, idx int, page domain.Page) domain.Project {
	pages := make([]domain.Page, len(p.Pages))
	copy(pages, p.Pages)
	pages[idx] = page
	p.Pages = pages
	return p
}

// patchProject applies fn to the project with the given id (empty id means
// the current project).
func (e *Engine) patchProject(s domain.AppState, projectID string, fn func(domain.Project) domain.Project) (domain.AppState, bool) {
	if projectID == "" {
		projectID = s.CurrentProjectID
	}
	pi := projectIndex(s, projectID)
	if pi < 0 {
		return s, false
	}
	return withProject(s, pi, fn(s.Projects[pi])), true
}

// patchPage applies fn to a page of the current project (empty id means
// the current page).
func (e *Engine) patchPage(s domain.AppState, pageID string, fn func(domain.Page) domain.Page) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	if pageID == "" {
		pageID = p.CurrentPageID
	}
	for i := range p.Pages {
		if p.Pages[i].ID == pageID {
			return withProject(s, pi, withPage(p, i, fn(p.Pages[i]))), true
		}
	}
	return s, false
}

func projectColumns(s domain.AppState) int {
	if p := s.CurrentProject(); p != nil {
		return p.Columns()
	}
	return domain.DefaultGridColumns
}

func pruneSelection(ids []string, root *domain.Node) []string {
	var kept []string
	for _, id := range ids {
		if tree.Find(root, id) != nil {
			kept = append(kept, id)
		}
	}
	return kept
}

func copyInteractions(in []domain.Interaction) []domain.Interaction {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Interaction, len(in))
	copy(out, in)
	return out
}

func interactionIndex(in []domain.Interaction, id string) int {
	for i := range in {
		if in[i].ID == id {
			return i
		}
	}
	return -1
}
