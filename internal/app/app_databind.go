package app

import (
	"context"

	"blueprint/internal/databind"
	"blueprint/internal/domain"
)

// ============================================================
// Data Binding
// ============================================================

// DataSourceView is the frontend-safe view of a data source (no password).
type DataSourceView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	SSLMode  string `json:"sslMode"`
}

// DataSourceInput is the input for creating/updating a data source. The
// password goes to the secret store, never to SQLite.
type DataSourceInput struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

func viewOf(ds domain.DataSource) DataSourceView {
	return DataSourceView{
		ID: ds.ID, Name: ds.Name, Driver: ds.Driver,
		Host: ds.Host, Port: ds.Port, Database: ds.Database,
		Username: ds.Username, SSLMode: ds.SSLMode,
	}
}

func (a *App) ListDataSources() ([]DataSourceView, error) {
	sources, err := a.binds.ListSources()
	if err != nil {
		return nil, err
	}
	views := make([]DataSourceView, len(sources))
	for i, ds := range sources {
		views[i] = viewOf(ds)
	}
	return views, nil
}

func (a *App) CreateDataSource(input DataSourceInput) (*DataSourceView, error) {
	ds, err := a.binds.CreateSource(domain.DataSource{
		Name:     input.Name,
		Driver:   input.Driver,
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
	}, input.Password)
	if err != nil {
		return nil, err
	}
	v := viewOf(*ds)
	return &v, nil
}

// UpdateDataSource updates a source; an empty password keeps the stored
// one.
func (a *App) UpdateDataSource(id string, input DataSourceInput) error {
	return a.binds.UpdateSource(domain.DataSource{
		ID:       id,
		Name:     input.Name,
		Driver:   input.Driver,
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
	}, input.Password)
}

func (a *App) DeleteDataSource(id string) error {
	return a.binds.DeleteSource(id)
}

func (a *App) TestDataSource(id string) error {
	return a.binds.TestSource(context.Background(), id)
}

// FetchBinding runs one read-only binding query; the source editor uses
// it for previews.
func (a *App) FetchBinding(sourceID, query string, limit int) (*databind.RowSet, error) {
	return a.binds.Fetch(context.Background(), sourceID, query, limit)
}

// RefreshBindings re-fetches every binding on the current page now,
// outside the periodic schedule.
func (a *App) RefreshBindings() {
	a.binds.RefreshPage(a.ctx)
}
