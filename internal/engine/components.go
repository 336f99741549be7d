package engine

import (
	"blueprint/internal/domain"
	"blueprint/internal/tree"
)

// ── global component handlers ──────────────────────────────

func (e *Engine) makeGlobalComponent(s domain.AppState, c MakeGlobalComponent) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil || c.NodeID == root.ID {
		return s, false
	}
	node := tree.Find(root, c.NodeID)
	if node == nil {
		return s, false
	}

	name := c.Name
	if name == "" {
		name = node.Name
	}
	if name == "" {
		name = node.Type
	}
	// The definition gets fresh ids so component-subtree ids never collide
	// with page trees.
	comp := domain.GlobalComponent{
		ID:   e.gen(),
		Name: name,
		Root: tree.Clone(node, e.gen),
	}

	// Swap the original subtree for an instance node in place.
	instance := &domain.Node{
		ID:    e.gen(),
		Type:  domain.TypeComponent,
		Name:  name,
		Props: map[string]any{"componentId": comp.ID},
	}
	parent := tree.FindParent(root, c.NodeID)
	if parent == nil {
		return s, false
	}
	newRoot := tree.Patch(root, parent.ID, func(p *domain.Node) *domain.Node {
		cp := tree.ShallowCopy(p)
		children := make([]*domain.Node, len(p.Children))
		copy(children, p.Children)
		for i, child := range children {
			if child.ID == c.NodeID {
				// Keep the grid span the original occupied.
				if span, ok := child.Props["colSpan"]; ok {
					instance.Props["colSpan"] = span
				}
				children[i] = instance
			}
		}
		cp.Children = children
		return cp
	})

	s = e.withActiveTree(s, newRoot)
	pi := projectIndex(s, s.CurrentProjectID)
	p := s.Projects[pi]
	comps := make([]domain.GlobalComponent, len(p.GlobalComponents), len(p.GlobalComponents)+1)
	copy(comps, p.GlobalComponents)
	p.GlobalComponents = append(comps, comp)
	s = withProject(s, pi, p)
	s.SelectedNodeIDs = []string{instance.ID}
	return s, true
}

func (e *Engine) insertComponentInstance(s domain.AppState, c InsertComponentInstance) (domain.AppState, bool) {
	p := s.CurrentProject()
	if p == nil {
		return s, false
	}
	comp := p.Component(c.ComponentID)
	if comp == nil {
		return s, false
	}
	instance := &domain.Node{
		ID:    e.gen(),
		Type:  domain.TypeComponent,
		Name:  comp.Name,
		Props: map[string]any{"componentId": comp.ID},
	}
	return e.insertNode(s, InsertNode{Node: instance, ParentID: c.ParentID, Index: c.Index})
}

func (e *Engine) updateGlobalComponent(s domain.AppState, c UpdateGlobalComponent) (domain.AppState, bool) {
	if c.Root == nil {
		return s, false
	}
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	for ci := range p.GlobalComponents {
		if p.GlobalComponents[ci].ID == c.ComponentID {
			comps := make([]domain.GlobalComponent, len(p.GlobalComponents))
			copy(comps, p.GlobalComponents)
			comps[ci].Root = c.Root
			p.GlobalComponents = comps
			return withProject(s, pi, p), true
		}
	}
	return s, false
}

func (e *Engine) deleteGlobalComponent(s domain.AppState, componentID string) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	idx := -1
	for ci := range p.GlobalComponents {
		if p.GlobalComponents[ci].ID == componentID {
			idx = ci
			break
		}
	}
	if idx < 0 {
		return s, false
	}
	comps := make([]domain.GlobalComponent, 0, len(p.GlobalComponents)-1)
	comps = append(comps, p.GlobalComponents[:idx]...)
	comps = append(comps, p.GlobalComponents[idx+1:]...)
	if len(comps) == 0 {
		comps = nil
	}
	p.GlobalComponents = comps
	s = withProject(s, pi, p)
	if s.EditingComponentID == componentID {
		s.EditingComponentID = ""
	}
	return s, true
}

func (e *Engine) detachComponentInstance(s domain.AppState, nodeID string) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil {
		return s, false
	}
	instance := tree.Find(root, nodeID)
	if instance == nil || instance.Type != domain.TypeComponent {
		return s, false
	}
	p := s.CurrentProject()
	comp := p.Component(instance.PropString("componentId"))
	if comp == nil || comp.Root == nil {
		return s, false
	}

	detached := tree.Clone(comp.Root, e.gen)
	if span, ok := instance.Props["colSpan"]; ok {
		detached.Props["colSpan"] = span
	}
	parent := tree.FindParent(root, nodeID)
	if parent == nil {
		return s, false
	}
	newRoot := tree.Patch(root, parent.ID, func(pn *domain.Node) *domain.Node {
		cp := tree.ShallowCopy(pn)
		children := make([]*domain.Node, len(pn.Children))
		copy(children, pn.Children)
		for i, child := range children {
			if child.ID == nodeID {
				children[i] = detached
			}
		}
		cp.Children = children
		return cp
	})
	s = e.withActiveTree(s, newRoot)
	s.SelectedNodeIDs = []string{detached.ID}
	return s, true
}
