package engine

import (
	"fmt"

	"blueprint/internal/domain"
	"blueprint/internal/tree"
)

// ── page handlers ──────────────────────────────────────────

func (e *Engine) addPage(s domain.AppState, c AddPage) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	name := c.Name
	if name == "" {
		name = fmt.Sprintf("Page %d", len(p.Pages)+1)
	}
	page := domain.NewPage(e.gen(), name)

	pages := make([]domain.Page, len(p.Pages), len(p.Pages)+1)
	copy(pages, p.Pages)
	p.Pages = append(pages, page)
	p.CurrentPageID = page.ID
	return withProject(s, pi, p), true
}

func (e *Engine) deletePage(s domain.AppState, pageID string) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	// A project always keeps at least one page.
	if len(p.Pages) <= 1 {
		return s, false
	}
	idx := -1
	for i := range p.Pages {
		if p.Pages[i].ID == pageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, false
	}
	pages := make([]domain.Page, 0, len(p.Pages)-1)
	pages = append(pages, p.Pages[:idx]...)
	pages = append(pages, p.Pages[idx+1:]...)
	p.Pages = pages
	if p.CurrentPageID == pageID {
		p.CurrentPageID = pages[0].ID
	}
	return withProject(s, pi, p), true
}

func (e *Engine) renamePage(s domain.AppState, c RenamePage) (domain.AppState, bool) {
	return e.patchPage(s, c.PageID, func(p domain.Page) domain.Page {
		p.Name = c.Name
		return p
	})
}

func (e *Engine) duplicatePage(s domain.AppState, pageID string) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	idx := -1
	for i := range p.Pages {
		if p.Pages[i].ID == pageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, false
	}
	src := p.Pages[idx]

	// Children get fresh ids; the protected root id is fixed per page and
	// stays.
	copyTree := domain.NewRootNode()
	if src.Tree != nil {
		copyTree.Props = tree.CopyProps(src.Tree.Props)
		for _, child := range src.Tree.Children {
			copyTree.Children = append(copyTree.Children, tree.Clone(child, e.gen))
		}
	}
	dup := domain.Page{
		ID:   e.gen(),
		Name: src.Name + " Copy",
		Tree: copyTree,
	}
	if src.ThemeOverride != nil {
		dup.ThemeOverride = tree.CopyProps(src.ThemeOverride)
	}
	if src.Canvas != nil {
		canvas := *src.Canvas
		dup.Canvas = &canvas
	}

	pages := make([]domain.Page, 0, len(p.Pages)+1)
	pages = append(pages, p.Pages[:idx+1]...)
	pages = append(pages, dup)
	pages = append(pages, p.Pages[idx+1:]...)
	p.Pages = pages
	p.CurrentPageID = dup.ID
	return withProject(s, pi, p), true
}

func (e *Engine) reorderPages(s domain.AppState, pageIDs []string) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	if len(pageIDs) != len(p.Pages) {
		return s, false
	}
	byID := make(map[string]domain.Page, len(p.Pages))
	for _, page := range p.Pages {
		byID[page.ID] = page
	}
	pages := make([]domain.Page, 0, len(pageIDs))
	for _, id := range pageIDs {
		page, ok := byID[id]
		if !ok {
			return s, false
		}
		pages = append(pages, page)
		delete(byID, id)
	}
	p.Pages = pages
	return withProject(s, pi, p), true
}

func (e *Engine) setCurrentPage(s domain.AppState, pageID string) (domain.AppState, bool) {
	pi := projectIndex(s, s.CurrentProjectID)
	if pi < 0 {
		return s, false
	}
	p := s.Projects[pi]
	if p.CurrentPageID == pageID || p.Page(pageID) == nil {
		return s, false
	}
	p.CurrentPageID = pageID
	// Navigation only: bypass withProject so UpdatedAt stays put, but still
	// copy the projects slice (no in-place mutation).
	projects := make([]domain.Project, len(s.Projects))
	copy(projects, s.Projects)
	projects[pi] = p
	s.Projects = projects
	s.SelectedNodeIDs = nil
	return s, true
}

// ── project handlers ───────────────────────────────────────

func (e *Engine) createProject(s domain.AppState, name string) (domain.AppState, bool) {
	if name == "" {
		name = fmt.Sprintf("Project %d", len(s.Projects)+1)
	}
	p := domain.NewProject(e.gen, name)
	projects := make([]domain.Project, len(s.Projects), len(s.Projects)+1)
	copy(projects, s.Projects)
	s.Projects = append(projects, p)
	s.CurrentProjectID = p.ID
	s.SelectedNodeIDs = nil
	return s, true
}

func (e *Engine) deleteProject(s domain.AppState, projectID string) (domain.AppState, bool) {
	// The last project and protected example projects stay.
	if len(s.Projects) <= 1 {
		return s, false
	}
	pi := projectIndex(s, projectID)
	if pi < 0 || s.Projects[pi].IsExampleProject {
		return s, false
	}
	projects := make([]domain.Project, 0, len(s.Projects)-1)
	projects = append(projects, s.Projects[:pi]...)
	projects = append(projects, s.Projects[pi+1:]...)
	s.Projects = projects
	if s.CurrentProjectID == projectID {
		s.CurrentProjectID = projects[0].ID
		s.SelectedNodeIDs = nil
	}
	return s, true
}

func (e *Engine) renameProject(s domain.AppState, c RenameProject) (domain.AppState, bool) {
	pi := projectIndex(s, c.ProjectID)
	if pi < 0 || s.Projects[pi].IsExampleProject || s.Projects[pi].Name == c.Name {
		return s, false
	}
	p := s.Projects[pi]
	p.Name = c.Name
	return withProject(s, pi, p), true
}

func (e *Engine) installProject(s domain.AppState, p domain.Project) (domain.AppState, bool) {
	if p.ID == "" || len(p.Pages) == 0 {
		return s, false
	}
	if projectIndex(s, p.ID) >= 0 {
		// Imported twice: install under a fresh id rather than clobbering.
		p.ID = e.gen()
	}
	projects := make([]domain.Project, len(s.Projects), len(s.Projects)+1)
	copy(projects, s.Projects)
	s.Projects = append(projects, p)
	s.CurrentProjectID = p.ID
	s.SelectedNodeIDs = nil
	return s, true
}

func (e *Engine) setCurrentProject(s domain.AppState, projectID string) (domain.AppState, bool) {
	if s.CurrentProjectID == projectID || projectIndex(s, projectID) < 0 {
		return s, false
	}
	s.CurrentProjectID = projectID
	s.SelectedNodeIDs = nil
	s.EditingComponentID = ""
	return s, true
}

func (e *Engine) setEditingMode(s domain.AppState, componentID string) (domain.AppState, bool) {
	if s.EditingComponentID == componentID {
		return s, false
	}
	if componentID != "" {
		p := s.CurrentProject()
		if p == nil || p.Component(componentID) == nil {
			return s, false
		}
	}
	s.EditingComponentID = componentID
	s.SelectedNodeIDs = nil
	return s, true
}
