// Package engine is the mutation engine of the document model: a total
// state transition function over a closed command set, wrapped by a
// bounded undo/redo history. The engine never performs I/O and never
// mutates a state value in place; persistence, events, and concurrency
// control belong to the service layer.
package engine

import (
	"github.com/google/uuid"

	"blueprint/internal/domain"
	"blueprint/internal/layout"
	"blueprint/internal/tree"
)

// Engine owns the live AppState and its history. It is not safe for
// concurrent use; the document service serializes access.
type Engine struct {
	state   domain.AppState
	reg     domain.Registry
	gen     domain.IDGenerator
	assist  *layout.Assistant
	history *History
	dirty   bool
}

// UUIDGenerator is the production id generator.
func UUIDGenerator() string {
	return uuid.New().String()
}

// New returns an engine seeded with the default workspace.
func New(reg domain.Registry, gen domain.IDGenerator) *Engine {
	if reg == nil {
		reg = domain.NewBuiltinRegistry()
	}
	if gen == nil {
		gen = UUIDGenerator
	}
	return &Engine{
		state:   DefaultWorkspace(gen),
		reg:     reg,
		gen:     gen,
		assist:  layout.New(),
		history: NewHistory(),
	}
}

// State returns the current state value. Callers must treat it as
// immutable.
func (e *Engine) State() domain.AppState {
	return e.state
}

// Snapshot returns the persisted-content subset of the current state.
func (e *Engine) Snapshot() domain.Snapshot {
	return domain.SnapshotOf(e.state)
}

// Dirty reports whether there are unsaved content changes.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// HistoryDepths returns (past, future) stack sizes.
func (e *Engine) HistoryDepths() (int, int) {
	return e.history.Depths()
}

// Restore installs a loaded workspace snapshot, clearing history and the
// dirty flag. Used on startup and when another process rewrote storage.
func (e *Engine) Restore(snap domain.Snapshot) {
	e.state = e.state.WithSnapshot(snap)
	if e.state.CurrentProject() == nil && len(e.state.Projects) > 0 {
		e.state.CurrentProjectID = e.state.Projects[0].ID
	}
	e.state.SelectedNodeIDs = nil
	e.state.Clipboard = nil
	e.state.CutNodeID = ""
	e.state.EditingComponentID = ""
	e.history.Clear()
	e.dirty = false
}

// Apply runs one command to completion and reports whether the state
// changed. Invalid targets and invariant violations are silent no-ops;
// callers detect them via the returned flag.
func (e *Engine) Apply(cmd Command) bool {
	switch cmd.(type) {
	case Undo:
		snap, ok := e.history.Undo(domain.SnapshotOf(e.state))
		if !ok {
			return false
		}
		e.state = e.state.WithSnapshot(snap)
		e.dirty = true
		return true

	case Redo:
		snap, ok := e.history.Redo(domain.SnapshotOf(e.state))
		if !ok {
			return false
		}
		e.state = e.state.WithSnapshot(snap)
		e.dirty = true
		return true

	case ClearHistory:
		e.history.Clear()
		return true

	case MarkSaved:
		e.dirty = false
		return true

	case MarkDirty:
		e.dirty = true
		return true

	case ResetToDefault:
		e.state = DefaultWorkspace(e.gen)
		e.history.Clear()
		e.dirty = true
		return true
	}

	next, changed := e.reduce(e.state, cmd)
	if !changed {
		return false
	}
	if IsContentMutating(cmd) && !sameDocContent(e.state, next) {
		e.history.Record(domain.SnapshotOf(e.state))
		e.dirty = true
	}
	e.state = next
	return true
}

// sameDocContent reports whether two states hold the identical persisted
// content. Reducers path-copy, so a document edit always installs a new
// Projects backing array; a content command that ends up touching only
// session state (a paste that clears the cut marker but finds no valid
// parent) must not enter history or set the dirty flag.
func sameDocContent(a, b domain.AppState) bool {
	if a.CurrentProjectID != b.CurrentProjectID || len(a.Projects) != len(b.Projects) {
		return false
	}
	return len(a.Projects) == 0 || &a.Projects[0] == &b.Projects[0]
}

// DefaultWorkspace builds the workspace users see on a fresh install: a
// protected example project with a small starter page.
func DefaultWorkspace(gen domain.IDGenerator) domain.AppState {
	project := domain.NewProject(gen, "Example Project")
	project.IsExampleProject = true
	project.Description = "A starter project showing the basics."

	root := project.Pages[0].Tree
	heading := &domain.Node{
		ID: gen(), Type: "heading", Name: "Welcome",
		Props: map[string]any{"text": "Welcome to Blueprint", "level": 1, layout.SpanProp: 12},
	}
	text := &domain.Node{
		ID: gen(), Type: "text", Name: "Intro",
		Props: map[string]any{"text": "Drag components onto the canvas to get started.", layout.SpanProp: 12},
	}
	button := &domain.Node{
		ID: gen(), Type: "button", Name: "CTA",
		Props: map[string]any{"label": "New page", "variant": "primary", layout.SpanProp: 4},
	}
	root.Children = []*domain.Node{heading, text, button}

	return domain.AppState{
		Projects:         []domain.Project{project},
		CurrentProjectID: project.ID,
		ShowGridLines:    true,
	}
}

// NewNode builds a fresh node of the given type using the component
// registry's defaults. Unknown types still get a usable empty node.
func NewNode(reg domain.Registry, gen domain.IDGenerator, nodeType, name string) *domain.Node {
	n := &domain.Node{ID: gen(), Type: nodeType, Name: name, Props: map[string]any{}}
	spec, ok := reg.Spec(nodeType)
	if !ok {
		return n
	}
	for k, v := range spec.DefaultProps {
		n.Props[k] = v
	}
	for _, child := range spec.DefaultChildren {
		n.Children = append(n.Children, tree.Clone(child, gen))
	}
	return n
}
