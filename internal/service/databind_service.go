package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"blueprint/internal/databind"
	"blueprint/internal/domain"
	"blueprint/internal/secret"
	"blueprint/internal/storage"
	"blueprint/internal/tree"
)

// ─────────────────────────────────────────────────────────────
// DataBind Service — data sources, credentials, binding fetches
// ─────────────────────────────────────────────────────────────

// BindingData is one fetched binding, emitted to the frontend for
// rendering.
type BindingData struct {
	NodeID   string           `json:"nodeId"`
	SourceID string           `json:"sourceId"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
}

// DataBindService manages saved data sources and serves binding fetches
// for list components. Passwords live in the secret store keyed by
// source id; the sources table never sees them.
type DataBindService struct {
	sources *storage.DataSourceStore
	secrets secret.Store
	docs    *DocumentService
	emitter EventEmitter
	sched   *cron.Cron
}

func NewDataBindService(sources *storage.DataSourceStore, secrets secret.Store, docs *DocumentService, emitter EventEmitter) *DataBindService {
	return &DataBindService{sources: sources, secrets: secrets, docs: docs, emitter: emitter}
}

// ── Sources ────────────────────────────────────────────────

func (s *DataBindService) ListSources() ([]domain.DataSource, error) {
	return s.sources.List()
}

// CreateSource saves a data source and its password.
func (s *DataBindService) CreateSource(ds domain.DataSource, password string) (*domain.DataSource, error) {
	if ds.ID == "" {
		ds.ID = uuid.New().String()
	}
	if err := s.sources.Create(&ds); err != nil {
		return nil, fmt.Errorf("create data source: %w", err)
	}
	if password != "" {
		if err := s.secrets.Set(ds.ID, []byte(password)); err != nil {
			return nil, fmt.Errorf("store credentials: %w", err)
		}
	}
	return &ds, nil
}

// UpdateSource updates a data source; an empty password keeps the stored
// one.
func (s *DataBindService) UpdateSource(ds domain.DataSource, password string) error {
	if err := s.sources.Update(&ds); err != nil {
		return fmt.Errorf("update data source: %w", err)
	}
	if password != "" {
		if err := s.secrets.Set(ds.ID, []byte(password)); err != nil {
			return fmt.Errorf("store credentials: %w", err)
		}
	}
	return nil
}

func (s *DataBindService) DeleteSource(id string) error {
	if err := s.sources.Delete(id); err != nil {
		return err
	}
	return s.secrets.Delete(id)
}

// TestSource verifies connectivity with the stored credentials.
func (s *DataBindService) TestSource(ctx context.Context, id string) error {
	provider, err := s.open(id)
	if err != nil {
		return err
	}
	defer provider.Close()
	return provider.Test(ctx)
}

// ── Fetching ───────────────────────────────────────────────

// Fetch runs one binding query against a saved source.
func (s *DataBindService) Fetch(ctx context.Context, sourceID, query string, limit int) (*databind.RowSet, error) {
	provider, err := s.open(sourceID)
	if err != nil {
		return nil, err
	}
	defer provider.Close()
	return provider.Fetch(ctx, query, limit)
}

func (s *DataBindService) open(sourceID string) (databind.Provider, error) {
	ds, err := s.sources.Get(sourceID)
	if err != nil {
		return nil, err
	}
	pw, err := s.secrets.Get(ds.ID)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return databind.Open(ds, string(pw))
}

// RefreshPage fetches every binding on the current page and emits the
// results. Nodes bind through dataSource/dataQuery props.
func (s *DataBindService) RefreshPage(ctx context.Context) {
	state := s.docs.State()
	p := state.CurrentProject()
	if p == nil {
		return
	}
	page := p.Page(p.CurrentPageID)
	if page == nil || page.Tree == nil {
		return
	}

	for _, n := range tree.Flatten(page.Tree) {
		sourceID := n.PropString("dataSource")
		query := n.PropString("dataQuery")
		if sourceID == "" || query == "" {
			continue
		}
		rs, err := s.Fetch(ctx, sourceID, query, n.PropInt("dataLimit", 0))
		if err != nil {
			log.Printf("databind: fetch for node %s failed: %v", n.ID, err)
			s.emitter.Emit(ctx, EventBindingError, map[string]string{"nodeId": n.ID, "error": err.Error()})
			continue
		}
		s.emitter.Emit(ctx, EventBindingData, BindingData{
			NodeID:   n.ID,
			SourceID: sourceID,
			Columns:  rs.Columns,
			Rows:     rs.Rows,
		})
	}
}

// StartRefresh schedules periodic re-fetches of the current page's
// bindings. spec defaults to every minute.
func (s *DataBindService) StartRefresh(ctx context.Context, spec string) error {
	if spec == "" {
		spec = "@every 1m"
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		s.RefreshPage(ctx)
	})
	if err != nil {
		return err
	}
	c.Start()
	s.sched = c
	return nil
}

// StopRefresh halts the schedule.
func (s *DataBindService) StopRefresh() {
	if s.sched != nil {
		s.sched.Stop()
		s.sched = nil
	}
}
