package tree

import "blueprint/internal/domain"

// Position describes where a reordered node lands relative to the node it
// was dropped over.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// Reorder removes activeID's subtree and reinserts it relative to overID.
//
// Rejected (root returned unchanged):
//   - activeID == overID, or either id is the protected root as the moved
//     node, or either id is unknown;
//   - Inside where overID is a descendant of activeID (a node cannot be
//     dropped into its own subtree);
//   - Before/After where activeID and overID do not share a parent.
//     Cross-container moves are only permitted with Inside: a container can
//     receive children from anywhere, but sibling-relative ordering must
//     stay local. Intentional asymmetry, pinned by tests.
func Reorder(root *domain.Node, activeID, overID string, pos Position) *domain.Node {
	if root == nil || activeID == "" || overID == "" || activeID == overID {
		return root
	}
	if activeID == root.ID {
		return root
	}
	active := Find(root, activeID)
	over := Find(root, overID)
	if active == nil || over == nil {
		return root
	}

	switch pos {
	case Inside:
		if IsDescendant(root, activeID, overID) {
			return root
		}
		removed := Remove(root, activeID)
		return Insert(removed, active, overID, -1)

	case Before, After:
		activeParent := FindParent(root, activeID)
		overParent := FindParent(root, overID)
		if activeParent == nil || overParent == nil || activeParent.ID != overParent.ID {
			return root
		}
		removed := Remove(root, activeID)
		// Parent still exists after removal; recompute the target index
		// against the shrunk sibling list.
		parentAfter := Find(removed, activeParent.ID)
		index := indexOf(parentAfter, overID)
		if index < 0 {
			return root
		}
		if pos == After {
			index++
		}
		return Insert(removed, active, activeParent.ID, index)

	default:
		return root
	}
}
