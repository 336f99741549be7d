package app

import (
	"encoding/json"
	"fmt"
	"os"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
	"blueprint/internal/storage"
)

// ============================================================
// Projects
// ============================================================

func (a *App) CreateProject(name string) bool {
	return a.docs.Dispatch(engine.CreateProject{Name: name})
}

func (a *App) DeleteProject(projectID string) bool {
	return a.docs.Dispatch(engine.DeleteProject{ProjectID: projectID})
}

func (a *App) RenameProject(projectID, name string) bool {
	return a.docs.Dispatch(engine.RenameProject{ProjectID: projectID, Name: name})
}

func (a *App) UpdateProjectTheme(projectID string, theme map[string]any) bool {
	return a.docs.Dispatch(engine.UpdateProjectTheme{ProjectID: projectID, Theme: theme})
}

func (a *App) UpdateProjectLayout(projectID string, layout domain.LayoutDefaults) bool {
	return a.docs.Dispatch(engine.UpdateProjectLayout{ProjectID: projectID, Layout: layout})
}

func (a *App) UpdateProjectDescription(projectID, description string) bool {
	return a.docs.Dispatch(engine.UpdateProjectDescription{ProjectID: projectID, Description: description})
}

func (a *App) SetCurrentProject(projectID string) bool {
	return a.docs.Dispatch(engine.SetCurrentProject{ProjectID: projectID})
}

// ExportProject writes one project as a JSON document via a native save
// dialog. The document can be re-imported here or dropped into another
// workspace's imports directory.
func (a *App) ExportProject(projectID string) (string, error) {
	state := a.docs.State()
	var target *domain.Project
	for i := range state.Projects {
		if state.Projects[i].ID == projectID {
			target = &state.Projects[i]
		}
	}
	if target == nil {
		return "", fmt.Errorf("project not found: %s", projectID)
	}

	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export Project",
		DefaultFilename: target.Name + ".json",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Project Documents", Pattern: "*.json"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}

	doc, err := json.MarshalIndent(target, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal project: %w", err)
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ImportProject picks a project document, migrates it to the current
// schema, and installs it as the current project.
func (a *App) ImportProject() (*domain.Project, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Import Project",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Project Documents", Pattern: "*.json"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	if err != nil || path == "" {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	p, err := storage.MigrateProject(raw)
	if err != nil {
		return nil, fmt.Errorf("migrate import: %w", err)
	}
	if err := a.docs.InstallProject(p); err != nil {
		return nil, err
	}
	return &p, nil
}
