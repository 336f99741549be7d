package app

import (
	"blueprint/internal/domain"
	"blueprint/internal/engine"
)

// ============================================================
// Document / History
// ============================================================

// GetState returns the whole editor state for initial render.
func (a *App) GetState() domain.AppState {
	return a.docs.State()
}

// SaveWorkspace persists the workspace immediately.
func (a *App) SaveWorkspace() error {
	return a.docs.Save()
}

// IsDirty reports whether there are unsaved changes.
func (a *App) IsDirty() bool {
	return a.docs.Dirty()
}

// HistoryStatus reports undo/redo stack depths for toolbar state.
type HistoryStatus struct {
	UndoDepth int  `json:"undoDepth"`
	RedoDepth int  `json:"redoDepth"`
	Dirty     bool `json:"dirty"`
}

func (a *App) GetHistoryStatus() HistoryStatus {
	past, future := a.docs.HistoryDepths()
	return HistoryStatus{UndoDepth: past, RedoDepth: future, Dirty: a.docs.Dirty()}
}

// Undo steps the document back one edit. Returns false when there is
// nothing to undo.
func (a *App) Undo() bool {
	return a.docs.Dispatch(engine.Undo{})
}

// Redo steps forward again.
func (a *App) Redo() bool {
	return a.docs.Dispatch(engine.Redo{})
}

// ClearHistory empties both history stacks.
func (a *App) ClearHistory() bool {
	return a.docs.Dispatch(engine.ClearHistory{})
}

// ResetWorkspace replaces everything with the seeded default workspace.
func (a *App) ResetWorkspace() error {
	a.docs.Dispatch(engine.ResetToDefault{})
	return a.docs.Save()
}
