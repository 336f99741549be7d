// Package tree holds the pure structural primitives of the design-tree
// model. Every function treats its input as immutable: mutations copy only
// the spine from the edited node up to the root and share everything else,
// and every failure mode (unknown id, guarded edit) returns the input root
// unchanged so callers can detect no-ops by pointer identity.
package tree

import "blueprint/internal/domain"

// Find returns the node with the given id, depth-first, or nil.
func Find(root *domain.Node, id string) *domain.Node {
	if root == nil || id == "" {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, c := range root.Children {
		if found := Find(c, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given id, or nil if
// the id is the root or unknown.
func FindParent(root *domain.Node, id string) *domain.Node {
	if root == nil || id == "" || root.ID == id {
		return nil
	}
	for _, c := range root.Children {
		if c.ID == id {
			return root
		}
		if p := FindParent(c, id); p != nil {
			return p
		}
	}
	return nil
}

// Flatten returns all nodes in pre-order. Selection range logic depends on
// this ordering.
func Flatten(root *domain.Node) []*domain.Node {
	if root == nil {
		return nil
	}
	out := []*domain.Node{root}
	for _, c := range root.Children {
		out = append(out, Flatten(c)...)
	}
	return out
}

// IsDescendant reports whether id lives inside the subtree rooted at
// ancestorID (a node is not its own descendant).
func IsDescendant(root *domain.Node, ancestorID, id string) bool {
	ancestor := Find(root, ancestorID)
	if ancestor == nil || ancestorID == id {
		return false
	}
	for _, c := range ancestor.Children {
		if Find(c, id) != nil {
			return true
		}
	}
	return false
}

// shallow returns a copy of n sharing its props, children, and
// interactions. Callers that mutate any of those must replace them.
func shallow(n *domain.Node) *domain.Node {
	cp := *n
	return &cp
}

// update returns a new root in which the node with the given id has been
// replaced by fn(node), path-copying the spine. The second result is false
// (and the original root is returned) when the id is not present or fn
// declined the edit by returning its argument.
func update(root *domain.Node, id string, fn func(*domain.Node) *domain.Node) (*domain.Node, bool) {
	if root == nil {
		return root, false
	}
	if root.ID == id {
		next := fn(root)
		if next == root {
			return root, false
		}
		return next, true
	}
	for i, c := range root.Children {
		newChild, ok := update(c, id, fn)
		if !ok {
			continue
		}
		cp := shallow(root)
		children := make([]*domain.Node, len(root.Children))
		copy(children, root.Children)
		children[i] = newChild
		cp.Children = children
		return cp, true
	}
	return root, false
}

// Patch replaces the node with the given id by fn(node), path-copying the
// spine. fn must never mutate its argument; returning the argument itself
// declines the edit. The root is returned unchanged when the id is not
// present or the edit was declined.
func Patch(root *domain.Node, id string, fn func(*domain.Node) *domain.Node) *domain.Node {
	newRoot, ok := update(root, id, fn)
	if !ok {
		return root
	}
	return newRoot
}

// ShallowCopy returns a copy of n that still shares its props map,
// children slice, and interactions slice. Patch callbacks use it as the
// starting point for their edits.
func ShallowCopy(n *domain.Node) *domain.Node {
	return shallow(n)
}

// UpdateProps merges patch into the props of the node with the given id,
// copying the props map. Unknown ids leave the root unchanged.
func UpdateProps(root *domain.Node, id string, patch map[string]any) *domain.Node {
	if len(patch) == 0 {
		return root
	}
	return Patch(root, id, func(n *domain.Node) *domain.Node {
		cp := shallow(n)
		cp.Props = CopyProps(n.Props)
		for k, v := range patch {
			cp.Props[k] = v
		}
		return cp
	})
}

// CopyProps deep-copies a props map (values are shared; nested structures
// in props are treated as opaque).
func CopyProps(props map[string]any) map[string]any {
	cp := make(map[string]any, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return cp
}

// Clone deep-clones a subtree, generating fresh ids for every node and
// interaction. Interaction targets are left pointing at their original
// nodes.
func Clone(n *domain.Node, gen domain.IDGenerator) *domain.Node {
	if n == nil {
		return nil
	}
	cp := shallow(n)
	cp.ID = gen()
	cp.Props = CopyProps(n.Props)
	if len(n.Interactions) > 0 {
		cp.Interactions = make([]domain.Interaction, len(n.Interactions))
		copy(cp.Interactions, n.Interactions)
		for i := range cp.Interactions {
			cp.Interactions[i].ID = gen()
		}
	}
	if len(n.Children) > 0 {
		cp.Children = make([]*domain.Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = Clone(c, gen)
		}
	}
	return cp
}
