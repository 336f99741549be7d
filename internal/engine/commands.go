package engine

import "blueprint/internal/domain"

// Command is one member of the closed set of operations accepted by the
// engine. The set is sealed: every variant lives in this file and
// implements isCommand, and variants that edit document content (as opposed
// to selection, navigation, or view state) additionally implement the
// mutatesContent marker that drives history recording and the dirty flag.
type Command interface {
	isCommand()
}

// contentCommand marks commands whose effect must be undoable and must
// mark the document dirty.
type contentCommand interface {
	Command
	mutatesContent()
}

// IsContentMutating reports whether a command edits document content.
func IsContentMutating(cmd Command) bool {
	_, ok := cmd.(contentCommand)
	return ok
}

// ── Node commands ──────────────────────────────────────────

// UpdateProps merges props into one node.
type UpdateProps struct {
	NodeID string
	Props  map[string]any
}

// UpdatePropsMulti merges the same props into many nodes at once
// (multi-selection editing, sibling span rebalances).
type UpdatePropsMulti struct {
	NodeIDs []string
	Props   map[string]any
}

// RenameNode sets a node's display name.
type RenameNode struct {
	NodeID string
	Name   string
}

// InsertNode inserts a prepared node under ParentID at Index. An empty
// ParentID targets the page root; a negative Index appends. Grid parents
// get the smart span policy applied; the selection heuristic then keeps
// structural containers selected and selects leaf inserts.
type InsertNode struct {
	Node     *domain.Node
	ParentID string
	Index    int
}

// RemoveNode deletes a subtree. Removing the page root is rejected.
type RemoveNode struct {
	NodeID string
}

// DuplicateNode deep-clones a subtree with fresh ids, placing the clone
// immediately after the original.
type DuplicateNode struct {
	NodeID string
}

// MoveNode swaps a node with its previous/next sibling.
type MoveNode struct {
	NodeID    string
	Direction string // "up" or "down"
}

// ReorderNode moves ActiveID relative to OverID ("before", "after",
// "inside"), subject to the cycle and cross-container guards.
type ReorderNode struct {
	ActiveID string
	OverID   string
	Position string
}

// SetPageTree replaces a page's whole tree (AI generation, import). Trees
// not rooted at the protected root id are wrapped under a fresh root.
type SetPageTree struct {
	PageID string // empty: current page
	Tree   *domain.Node
}

// ── Interaction commands ───────────────────────────────────

// AddInteraction appends a trigger→action binding to a node.
type AddInteraction struct {
	NodeID   string
	Trigger  string
	Action   string
	TargetID string
	Value    string
}

// UpdateInteraction rewrites an existing binding.
type UpdateInteraction struct {
	NodeID      string
	Interaction domain.Interaction
}

// RemoveInteraction deletes a binding from a node.
type RemoveInteraction struct {
	NodeID        string
	InteractionID string
}

// ── Page commands ──────────────────────────────────────────

// AddPage appends a page to the current project and makes it current.
type AddPage struct {
	Name string
}

// DeletePage removes a page. Deleting the project's only page is rejected.
type DeletePage struct {
	PageID string
}

// RenamePage sets a page name.
type RenamePage struct {
	PageID string
	Name   string
}

// DuplicatePage deep-copies a page (fresh node ids, protected root id kept)
// right after the original and makes the copy current.
type DuplicatePage struct {
	PageID string
}

// ReorderPages installs a new page order. PageIDs must be a permutation of
// the current ids.
type ReorderPages struct {
	PageIDs []string
}

// UpdatePageTheme sets a page's theme override.
type UpdatePageTheme struct {
	PageID string
	Theme  map[string]any
}

// UpdatePageCanvas sets a page's canvas position.
type UpdatePageCanvas struct {
	PageID string
	X, Y   float64
}

// SetCurrentPage navigates to a page. Navigation is session state: not
// undoable, never dirties the document.
type SetCurrentPage struct {
	PageID string
}

// ── Project commands ───────────────────────────────────────

// CreateProject appends a fresh single-page project and makes it current.
type CreateProject struct {
	Name string
}

// DeleteProject removes a project. The last project and protected example
// projects are kept.
type DeleteProject struct {
	ProjectID string
}

// RenameProject sets a project name. Protected projects are kept as-is.
type RenameProject struct {
	ProjectID string
	Name      string
}

// UpdateProjectTheme sets project-level theme defaults.
type UpdateProjectTheme struct {
	ProjectID string
	Theme     map[string]any
}

// UpdateProjectLayout sets project-level layout defaults.
type UpdateProjectLayout struct {
	ProjectID string
	Layout    domain.LayoutDefaults
}

// UpdateProjectDescription sets a project description.
type UpdateProjectDescription struct {
	ProjectID   string
	Description string
}

// InstallProject installs an already-migrated project (import path) and
// makes it current.
type InstallProject struct {
	Project domain.Project
}

// SetCurrentProject navigates between projects.
type SetCurrentProject struct {
	ProjectID string
}

// ── Global component commands ──────────────────────────────

// MakeGlobalComponent captures a subtree as a reusable project component
// and replaces the original node with an instance of it.
type MakeGlobalComponent struct {
	NodeID string
	Name   string
}

// InsertComponentInstance inserts an instance node referencing a global
// component.
type InsertComponentInstance struct {
	ComponentID string
	ParentID    string
	Index       int
}

// UpdateGlobalComponent replaces a component definition's subtree.
type UpdateGlobalComponent struct {
	ComponentID string
	Root        *domain.Node
}

// DeleteGlobalComponent removes a component definition. Existing instances
// keep their reference and render empty.
type DeleteGlobalComponent struct {
	ComponentID string
}

// DetachComponentInstance replaces an instance node with a fresh-id clone
// of its definition.
type DetachComponentInstance struct {
	NodeID string
}

// ── Clipboard commands ─────────────────────────────────────

// CopyNode captures a subtree into the clipboard. Session state only.
type CopyNode struct {
	NodeID string
}

// CutNode captures a subtree into the clipboard and removes it from the
// tree. The page root cannot be cut.
type CutNode struct {
	NodeID string
}

// PasteNode clones the clipboard content with fresh ids and inserts it
// under ParentID (default: page root, appended). Clears any pending cut
// marker regardless of outcome; empty clipboard is a no-op.
type PasteNode struct {
	ParentID string
}

// ── Selection commands ─────────────────────────────────────

// SetSelection replaces the selection wholesale.
type SetSelection struct {
	NodeIDs []string
}

// ToggleSelection single-selects by default; Multi adds/removes the id;
// Range extends across the flattened pre-order between the last selected
// node and the id.
type ToggleSelection struct {
	NodeID string
	Multi  bool
	Range  bool
}

// ── View / mode commands ───────────────────────────────────

// ToggleGridLines flips grid line visibility.
type ToggleGridLines struct{}

// ToggleColumnLines flips column line visibility.
type ToggleColumnLines struct{}

// TogglePlayMode flips interactive preview mode.
type TogglePlayMode struct{}

// SetEditingMode enters (or, with an empty id, exits) global-component
// isolation editing. While active, node commands address the component's
// subtree instead of the current page.
type SetEditingMode struct {
	ComponentID string
}

// ── History / document commands ────────────────────────────

// Undo steps the document back one snapshot. No-op with an empty past.
type Undo struct{}

// Redo steps forward again. No-op with an empty future.
type Redo struct{}

// ClearHistory empties both history stacks without touching the present.
type ClearHistory struct{}

// MarkSaved clears the dirty flag (storage collaborator persisted us).
type MarkSaved struct{}

// MarkDirty sets the dirty flag directly.
type MarkDirty struct{}

// ResetToDefault replaces the whole workspace with the seeded default and
// clears history.
type ResetToDefault struct{}

// ── sealing ────────────────────────────────────────────────

func (UpdateProps) isCommand()              {}
func (UpdatePropsMulti) isCommand()         {}
func (RenameNode) isCommand()               {}
func (InsertNode) isCommand()               {}
func (RemoveNode) isCommand()               {}
func (DuplicateNode) isCommand()            {}
func (MoveNode) isCommand()                 {}
func (ReorderNode) isCommand()              {}
func (SetPageTree) isCommand()              {}
func (AddInteraction) isCommand()           {}
func (UpdateInteraction) isCommand()        {}
func (RemoveInteraction) isCommand()        {}
func (AddPage) isCommand()                  {}
func (DeletePage) isCommand()               {}
func (RenamePage) isCommand()               {}
func (DuplicatePage) isCommand()            {}
func (ReorderPages) isCommand()             {}
func (UpdatePageTheme) isCommand()          {}
func (UpdatePageCanvas) isCommand()         {}
func (SetCurrentPage) isCommand()           {}
func (CreateProject) isCommand()            {}
func (DeleteProject) isCommand()            {}
func (RenameProject) isCommand()            {}
func (UpdateProjectTheme) isCommand()       {}
func (UpdateProjectLayout) isCommand()      {}
func (UpdateProjectDescription) isCommand() {}
func (InstallProject) isCommand()           {}
func (SetCurrentProject) isCommand()        {}
func (MakeGlobalComponent) isCommand()      {}
func (InsertComponentInstance) isCommand()  {}
func (UpdateGlobalComponent) isCommand()    {}
func (DeleteGlobalComponent) isCommand()    {}
func (DetachComponentInstance) isCommand()  {}
func (CopyNode) isCommand()                 {}
func (CutNode) isCommand()                  {}
func (PasteNode) isCommand()                {}
func (SetSelection) isCommand()             {}
func (ToggleSelection) isCommand()          {}
func (ToggleGridLines) isCommand()          {}
func (ToggleColumnLines) isCommand()        {}
func (TogglePlayMode) isCommand()           {}
func (SetEditingMode) isCommand()           {}
func (Undo) isCommand()                     {}
func (Redo) isCommand()                     {}
func (ClearHistory) isCommand()             {}
func (MarkSaved) isCommand()                {}
func (MarkDirty) isCommand()                {}
func (ResetToDefault) isCommand()           {}

func (UpdateProps) mutatesContent()              {}
func (UpdatePropsMulti) mutatesContent()         {}
func (RenameNode) mutatesContent()               {}
func (InsertNode) mutatesContent()               {}
func (RemoveNode) mutatesContent()               {}
func (DuplicateNode) mutatesContent()            {}
func (MoveNode) mutatesContent()                 {}
func (ReorderNode) mutatesContent()              {}
func (SetPageTree) mutatesContent()              {}
func (AddInteraction) mutatesContent()           {}
func (UpdateInteraction) mutatesContent()        {}
func (RemoveInteraction) mutatesContent()        {}
func (AddPage) mutatesContent()                  {}
func (DeletePage) mutatesContent()               {}
func (RenamePage) mutatesContent()               {}
func (DuplicatePage) mutatesContent()            {}
func (ReorderPages) mutatesContent()             {}
func (UpdatePageTheme) mutatesContent()          {}
func (UpdatePageCanvas) mutatesContent()         {}
func (CreateProject) mutatesContent()            {}
func (DeleteProject) mutatesContent()            {}
func (RenameProject) mutatesContent()            {}
func (UpdateProjectTheme) mutatesContent()       {}
func (UpdateProjectLayout) mutatesContent()      {}
func (UpdateProjectDescription) mutatesContent() {}
func (InstallProject) mutatesContent()           {}
func (MakeGlobalComponent) mutatesContent()      {}
func (InsertComponentInstance) mutatesContent()  {}
func (UpdateGlobalComponent) mutatesContent()    {}
func (DeleteGlobalComponent) mutatesContent()    {}
func (DetachComponentInstance) mutatesContent()  {}
func (CutNode) mutatesContent()                  {}
func (PasteNode) mutatesContent()                {}
