package domain

// ComponentSpec describes one component kind to the mutation engine:
// whether it can hold children, and the props/children a fresh instance
// starts with.
type ComponentSpec struct {
	AcceptsChildren bool
	DefaultProps    map[string]any
	DefaultChildren []*Node
}

// Registry is the component-registry collaborator consulted during insert.
// It is injected into the engine rather than accessed as a global, so the
// engine stays testable without the rendering layer.
type Registry interface {
	Spec(nodeType string) (ComponentSpec, bool)
}

// BuiltinRegistry is the default registry with the stock component kinds.
type BuiltinRegistry struct {
	specs map[string]ComponentSpec
}

// NewBuiltinRegistry returns the stock component registry.
func NewBuiltinRegistry() *BuiltinRegistry {
	return &BuiltinRegistry{specs: map[string]ComponentSpec{
		"grid": {
			AcceptsChildren: true,
			DefaultProps:    map[string]any{"columns": DefaultGridColumns, "gap": 16},
		},
		"container": {
			AcceptsChildren: true,
			DefaultProps:    map[string]any{"direction": "column", "gap": 8},
		},
		"form": {
			AcceptsChildren: true,
			DefaultProps:    map[string]any{"action": ""},
		},
		"list": {
			AcceptsChildren: true,
			DefaultProps:    map[string]any{"dataSource": "", "dataQuery": ""},
		},
		"button": {
			DefaultProps: map[string]any{"label": "Button", "variant": "primary"},
		},
		"text": {
			DefaultProps: map[string]any{"text": "Text"},
		},
		"heading": {
			DefaultProps: map[string]any{"text": "Heading", "level": 2},
		},
		"image": {
			DefaultProps: map[string]any{"src": "", "alt": ""},
		},
		"input": {
			DefaultProps: map[string]any{"placeholder": "", "inputType": "text"},
		},
		"link": {
			DefaultProps: map[string]any{"href": "", "text": "Link"},
		},
		"divider": {
			DefaultProps: map[string]any{},
		},
		"component": {
			DefaultProps: map[string]any{"componentId": ""},
		},
	}}
}

// Spec implements Registry.
func (r *BuiltinRegistry) Spec(nodeType string) (ComponentSpec, bool) {
	spec, ok := r.specs[nodeType]
	return spec, ok
}

// Register adds or replaces a component spec. Plugins use this to extend
// the palette.
func (r *BuiltinRegistry) Register(nodeType string, spec ComponentSpec) {
	r.specs[nodeType] = spec
}

// AcceptsChildren reports whether a node type is a structural container
// according to a registry, defaulting to false for unknown types.
func AcceptsChildren(reg Registry, nodeType string) bool {
	if reg == nil {
		return false
	}
	spec, ok := reg.Spec(nodeType)
	return ok && spec.AcceptsChildren
}
