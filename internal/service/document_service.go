package service

import (
	"context"
	"fmt"
	"sync"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
)

// ─────────────────────────────────────────────────────────────
// Document Service — serialized access to the mutation engine
// ─────────────────────────────────────────────────────────────

// DocumentService owns the engine and the snapshot store. Every dispatch
// runs under one mutex: the engine itself is single-threaded, and the
// frontend, the AI tool surface, and the autosave job all funnel through
// here.
type DocumentService struct {
	mu      sync.Mutex
	engine  *engine.Engine
	store   domain.ProjectStore
	emitter EventEmitter
	ctx     context.Context
}

// NewDocumentService creates a DocumentService. ctx is used for event
// emission and may be replaced later via SetContext (Wails hands the real
// context to the app on startup).
func NewDocumentService(eng *engine.Engine, store domain.ProjectStore, emitter EventEmitter) *DocumentService {
	return &DocumentService{
		engine:  eng,
		store:   store,
		emitter: emitter,
		ctx:     context.Background(),
	}
}

// SetContext installs the runtime context used for event emission.
func (s *DocumentService) SetContext(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

// LoadWorkspace loads the persisted workspace into the engine. A fresh
// database keeps the engine's seeded default workspace and persists it so
// the next launch and the standalone AI process see the same state.
func (s *DocumentService) LoadWorkspace() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}
	if snap == nil {
		if err := s.store.SaveSnapshot(s.engine.Snapshot()); err != nil {
			return fmt.Errorf("seed workspace: %w", err)
		}
		return nil
	}
	s.engine.Restore(*snap)
	return nil
}

// Dispatch applies one command and reports whether the state changed.
// Changes are broadcast to the frontend; persistence is deferred to Save
// and the autosave job.
func (s *DocumentService) Dispatch(cmd engine.Command) bool {
	s.mu.Lock()
	changed := s.engine.Apply(cmd)
	state := s.engine.State()
	ctx := s.ctx
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(ctx, EventStateChanged, state)
	}
	return changed
}

// State returns the current editor state.
func (s *DocumentService) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Dirty reports whether there are unsaved content changes.
func (s *DocumentService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Dirty()
}

// HistoryDepths returns (past, future) undo stack sizes.
func (s *DocumentService) HistoryDepths() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.HistoryDepths()
}

// Save persists the current snapshot and clears the dirty flag.
func (s *DocumentService) Save() error {
	s.mu.Lock()
	snap := s.engine.Snapshot()
	ctx := s.ctx
	if err := s.store.SaveSnapshot(snap); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save workspace: %w", err)
	}
	s.engine.Apply(engine.MarkSaved{})
	s.mu.Unlock()

	s.emitter.Emit(ctx, EventDocumentSaved, nil)
	return nil
}

// SaveIfDirty persists only when there are unsaved changes. The autosave
// job calls this on its schedule.
func (s *DocumentService) SaveIfDirty() error {
	if !s.Dirty() {
		return nil
	}
	return s.Save()
}

// Reload replaces the engine state with what storage currently holds.
// The workspace watcher calls this when another process rewrote the
// database. Unsaved local changes lose; last writer wins.
func (s *DocumentService) Reload() error {
	s.mu.Lock()
	snap, err := s.store.LoadSnapshot()
	if err != nil || snap == nil {
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("reload workspace: %w", err)
		}
		return nil
	}
	s.engine.Restore(*snap)
	state := s.engine.State()
	ctx := s.ctx
	s.mu.Unlock()

	s.emitter.Emit(ctx, EventWorkspaceReloaded, state)
	return nil
}

// InstallProject installs an already-migrated project document and
// persists immediately so the import survives a crash.
func (s *DocumentService) InstallProject(p domain.Project) error {
	if !s.Dispatch(engine.InstallProject{Project: p}) {
		return fmt.Errorf("project rejected: %s", p.ID)
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	s.emitter.Emit(ctx, EventProjectImported, p.ID)
	return nil
}
