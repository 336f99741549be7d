package engine

import (
	"blueprint/internal/domain"
	"blueprint/internal/tree"
)

// ── selection handlers ─────────────────────────────────────

func (e *Engine) setSelection(s domain.AppState, ids []string) (domain.AppState, bool) {
	if sameIDs(s.SelectedNodeIDs, ids) {
		return s, false
	}
	s.SelectedNodeIDs = append([]string(nil), ids...)
	return s, true
}

func (e *Engine) toggleSelection(s domain.AppState, c ToggleSelection) (domain.AppState, bool) {
	if c.NodeID == "" {
		return s, false
	}

	switch {
	case c.Range:
		anchor := ""
		if len(s.SelectedNodeIDs) > 0 {
			anchor = s.SelectedNodeIDs[len(s.SelectedNodeIDs)-1]
		}
		ids := e.rangeBetween(s, anchor, c.NodeID)
		if sameIDs(s.SelectedNodeIDs, ids) {
			return s, false
		}
		s.SelectedNodeIDs = ids
		return s, true

	case c.Multi:
		for i, id := range s.SelectedNodeIDs {
			if id == c.NodeID {
				ids := make([]string, 0, len(s.SelectedNodeIDs)-1)
				ids = append(ids, s.SelectedNodeIDs[:i]...)
				ids = append(ids, s.SelectedNodeIDs[i+1:]...)
				s.SelectedNodeIDs = ids
				return s, true
			}
		}
		ids := make([]string, len(s.SelectedNodeIDs), len(s.SelectedNodeIDs)+1)
		copy(ids, s.SelectedNodeIDs)
		s.SelectedNodeIDs = append(ids, c.NodeID)
		return s, true

	default:
		if len(s.SelectedNodeIDs) == 1 && s.SelectedNodeIDs[0] == c.NodeID {
			return s, false
		}
		s.SelectedNodeIDs = []string{c.NodeID}
		return s, true
	}
}

// rangeBetween returns the pre-order span between the anchor and the
// target, inclusive, in document order. Without a usable anchor it
// degrades to single selection.
func (e *Engine) rangeBetween(s domain.AppState, anchorID, targetID string) []string {
	root := e.activeTree(s)
	if root == nil {
		return []string{targetID}
	}
	flat := tree.Flatten(root)
	ai, ti := -1, -1
	for i, n := range flat {
		if n.ID == anchorID {
			ai = i
		}
		if n.ID == targetID {
			ti = i
		}
	}
	if ti < 0 {
		return []string{targetID}
	}
	if ai < 0 {
		return []string{targetID}
	}
	if ai > ti {
		ai, ti = ti, ai
	}
	ids := make([]string, 0, ti-ai+1)
	for _, n := range flat[ai : ti+1] {
		ids = append(ids, n.ID)
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ── clipboard handlers ─────────────────────────────────────

func (e *Engine) copyNode(s domain.AppState, nodeID string) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil {
		return s, false
	}
	node := tree.Find(root, nodeID)
	if node == nil {
		return s, false
	}
	s.Clipboard = node
	s.CutNodeID = ""
	return s, true
}

func (e *Engine) cutNode(s domain.AppState, nodeID string) (domain.AppState, bool) {
	root := e.activeTree(s)
	if root == nil || nodeID == root.ID {
		return s, false
	}
	node := tree.Find(root, nodeID)
	if node == nil {
		return s, false
	}
	newRoot := tree.Remove(root, nodeID)
	if newRoot == root {
		return s, false
	}
	s = e.withActiveTree(s, newRoot)
	s.Clipboard = node
	s.CutNodeID = nodeID
	s.SelectedNodeIDs = pruneSelection(s.SelectedNodeIDs, newRoot)
	return s, true
}

func (e *Engine) pasteNode(s domain.AppState, parentID string) (domain.AppState, bool) {
	if s.Clipboard == nil {
		return s, false
	}
	hadCut := s.CutNodeID != ""
	s.CutNodeID = ""

	clone := tree.Clone(s.Clipboard, e.gen)
	next, inserted := e.insertNode(s, InsertNode{Node: clone, ParentID: parentID, Index: -1})
	if inserted {
		return next, true
	}
	// Insert didn't land (unknown parent): the cut marker is still cleared.
	return s, hadCut
}
