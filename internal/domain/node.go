package domain

// RootNodeID is the fixed id of the protected top-level node of every page
// tree. It can never be removed, cut, or reparented.
const RootNodeID = "root"

// RootNodeType is the component type of the page root (a grid container).
const RootNodeType = "grid"

// Well-known component types used by the engine itself. The full set of
// types is open — anything the component registry knows about is valid.
const (
	TypeGrid      = "grid"
	TypeContainer = "container"
	TypeComponent = "component" // instance of a global component
)

// IDGenerator produces globally unique node/page/project ids.
// Injected so tests can use deterministic sequences.
type IDGenerator func() string

// Node is a single typed element in a page's design tree.
// Children are ordered; a node's parent is implied by list membership.
type Node struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Name         string         `json:"name,omitempty"`
	Props        map[string]any `json:"props"`
	Children     []*Node        `json:"children,omitempty"`
	Interactions []Interaction  `json:"interactions,omitempty"`
}

// Interaction is a trigger→action binding on a node, referencing another
// node or page by id (e.g. click → navigate to page).
type Interaction struct {
	ID       string `json:"id"`
	Trigger  string `json:"trigger"` // click, hover, load
	Action   string `json:"action"`  // navigate, open-url, toggle-visibility
	TargetID string `json:"targetId,omitempty"`
	Value    string `json:"value,omitempty"`
}

// NewRootNode returns a fresh page root: a grid container with the
// protected id.
func NewRootNode() *Node {
	return &Node{
		ID:    RootNodeID,
		Type:  RootNodeType,
		Name:  "Root",
		Props: map[string]any{"columns": DefaultGridColumns, "gap": 16},
	}
}

// PropInt reads an integer prop, tolerating the float64 that JSON
// round-trips produce.
func (n *Node) PropInt(key string, fallback int) int {
	switch v := n.Props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// PropString reads a string prop.
func (n *Node) PropString(key string) string {
	s, _ := n.Props[key].(string)
	return s
}
