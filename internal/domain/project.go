package domain

import "time"

// SchemaVersion is the current project document schema version. Older
// documents are upgraded by storage.MigrateProject on import.
const SchemaVersion = 2

// DefaultGridColumns is the column count of a grid container when its
// props don't say otherwise.
const DefaultGridColumns = 12

// CanvasPosition is an optional per-page position on the workspace canvas.
type CanvasPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Page is a named design tree plus per-page metadata. The tree's single
// top-level element is the protected root node.
type Page struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Tree          *Node           `json:"tree"`
	ThemeOverride map[string]any  `json:"themeOverride,omitempty"`
	Canvas        *CanvasPosition `json:"canvas,omitempty"`
}

// GlobalComponent is a named, reusable node subtree addressable by id and
// instantiable anywhere in the project via a "component" instance node.
type GlobalComponent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Root *Node  `json:"root"`
}

// LayoutDefaults are project-wide defaults applied by the layout assistant.
type LayoutDefaults struct {
	Columns int `json:"columns"`
	Gap     int `json:"gap"`
}

// Project is an ordered collection of pages plus project-level settings.
type Project struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Version          int               `json:"version"`
	Description      string            `json:"description,omitempty"`
	Pages            []Page            `json:"pages"`
	CurrentPageID    string            `json:"currentPageId"`
	GlobalComponents []GlobalComponent `json:"globalComponents,omitempty"`
	Theme            map[string]any    `json:"theme,omitempty"`
	Layout           *LayoutDefaults   `json:"layout,omitempty"`
	IsExampleProject bool              `json:"isExampleProject,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewPage returns a page with a fresh protected root tree.
func NewPage(id, name string) Page {
	return Page{ID: id, Name: name, Tree: NewRootNode()}
}

// NewProject returns a project with a single empty page.
func NewProject(gen IDGenerator, name string) Project {
	page := NewPage(gen(), "Page 1")
	now := time.Now()
	return Project{
		ID:            gen(),
		Name:          name,
		Version:       SchemaVersion,
		Pages:         []Page{page},
		CurrentPageID: page.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Page returns the page with the given id, or nil.
func (p *Project) Page(id string) *Page {
	for i := range p.Pages {
		if p.Pages[i].ID == id {
			return &p.Pages[i]
		}
	}
	return nil
}

// Component returns the global component with the given id, or nil.
func (p *Project) Component(id string) *GlobalComponent {
	for i := range p.GlobalComponents {
		if p.GlobalComponents[i].ID == id {
			return &p.GlobalComponents[i]
		}
	}
	return nil
}

// Columns returns the project's grid column default.
func (p *Project) Columns() int {
	if p.Layout != nil && p.Layout.Columns > 0 {
		return p.Layout.Columns
	}
	return DefaultGridColumns
}
