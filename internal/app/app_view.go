package app

import "blueprint/internal/engine"

// ============================================================
// View / Modes
// ============================================================

func (a *App) ToggleGridLines() bool {
	return a.docs.Dispatch(engine.ToggleGridLines{})
}

func (a *App) ToggleColumnLines() bool {
	return a.docs.Dispatch(engine.ToggleColumnLines{})
}

func (a *App) TogglePlayMode() bool {
	return a.docs.Dispatch(engine.TogglePlayMode{})
}

// SetEditingMode enters global-component isolation editing; an empty id
// exits back to the page.
func (a *App) SetEditingMode(componentID string) bool {
	return a.docs.Dispatch(engine.SetEditingMode{ComponentID: componentID})
}
