package app

import (
	"blueprint/internal/engine"
)

// ============================================================
// Pages
// ============================================================

func (a *App) AddPage(name string) bool {
	return a.docs.Dispatch(engine.AddPage{Name: name})
}

func (a *App) DeletePage(pageID string) bool {
	return a.docs.Dispatch(engine.DeletePage{PageID: pageID})
}

func (a *App) RenamePage(pageID, name string) bool {
	return a.docs.Dispatch(engine.RenamePage{PageID: pageID, Name: name})
}

func (a *App) DuplicatePage(pageID string) bool {
	return a.docs.Dispatch(engine.DuplicatePage{PageID: pageID})
}

// ReorderPages installs a new page order; pageIDs must mention every page
// exactly once.
func (a *App) ReorderPages(pageIDs []string) bool {
	return a.docs.Dispatch(engine.ReorderPages{PageIDs: pageIDs})
}

func (a *App) UpdatePageTheme(pageID string, theme map[string]any) bool {
	return a.docs.Dispatch(engine.UpdatePageTheme{PageID: pageID, Theme: theme})
}

// UpdatePageCanvas stores a page's position on the workspace canvas.
func (a *App) UpdatePageCanvas(pageID string, x, y float64) bool {
	return a.docs.Dispatch(engine.UpdatePageCanvas{PageID: pageID, X: x, Y: y})
}

// SetCurrentPage navigates to a page. Navigation is not undoable and does
// not dirty the document.
func (a *App) SetCurrentPage(pageID string) bool {
	return a.docs.Dispatch(engine.SetCurrentPage{PageID: pageID})
}
