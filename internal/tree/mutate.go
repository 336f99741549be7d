package tree

import "blueprint/internal/domain"

// Direction of a sibling swap.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Insert places node under parentID at the given index. An empty parentID
// targets the page root; a negative or out-of-range index appends. The root
// is returned unchanged when parentID does not resolve.
func Insert(root *domain.Node, node *domain.Node, parentID string, index int) *domain.Node {
	if root == nil || node == nil {
		return root
	}
	if parentID == "" {
		parentID = domain.RootNodeID
	}
	newRoot, ok := update(root, parentID, func(parent *domain.Node) *domain.Node {
		cp := shallow(parent)
		i := index
		if i < 0 || i > len(parent.Children) {
			i = len(parent.Children)
		}
		children := make([]*domain.Node, 0, len(parent.Children)+1)
		children = append(children, parent.Children[:i]...)
		children = append(children, node)
		children = append(children, parent.Children[i:]...)
		cp.Children = children
		return cp
	})
	if !ok {
		return root
	}
	return newRoot
}

// Remove deletes the subtree rooted at id. Removing the protected root or
// an unknown id is a no-op.
func Remove(root *domain.Node, id string) *domain.Node {
	if root == nil || id == "" || id == root.ID {
		return root
	}
	parent := FindParent(root, id)
	if parent == nil {
		return root
	}
	newRoot, ok := update(root, parent.ID, func(p *domain.Node) *domain.Node {
		cp := shallow(p)
		children := make([]*domain.Node, 0, len(p.Children)-1)
		for _, c := range p.Children {
			if c.ID != id {
				children = append(children, c)
			}
		}
		cp.Children = children
		return cp
	})
	if !ok {
		return root
	}
	return newRoot
}

// Duplicate deep-clones the subtree rooted at id (fresh ids throughout) and
// inserts the clone immediately after the original among its siblings. It
// returns the new root and the clone's id, or the unchanged root and ""
// when id is the root or unknown.
func Duplicate(root *domain.Node, id string, gen domain.IDGenerator) (*domain.Node, string) {
	if root == nil || id == "" || id == root.ID {
		return root, ""
	}
	parent := FindParent(root, id)
	if parent == nil {
		return root, ""
	}
	original := Find(root, id)
	clone := Clone(original, gen)

	index := indexOf(parent, id)
	newRoot := Insert(root, clone, parent.ID, index+1)
	return newRoot, clone.ID
}

// Move swaps the node with its immediate previous (Up) or next (Down)
// sibling. At array bounds it is a no-op.
func Move(root *domain.Node, id string, dir Direction) *domain.Node {
	if root == nil || id == "" || id == root.ID {
		return root
	}
	parent := FindParent(root, id)
	if parent == nil {
		return root
	}
	i := indexOf(parent, id)
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if j < 0 || j >= len(parent.Children) {
		return root
	}
	newRoot, ok := update(root, parent.ID, func(p *domain.Node) *domain.Node {
		cp := shallow(p)
		children := make([]*domain.Node, len(p.Children))
		copy(children, p.Children)
		children[i], children[j] = children[j], children[i]
		cp.Children = children
		return cp
	})
	if !ok {
		return root
	}
	return newRoot
}

func indexOf(parent *domain.Node, id string) int {
	for i, c := range parent.Children {
		if c.ID == id {
			return i
		}
	}
	return -1
}
