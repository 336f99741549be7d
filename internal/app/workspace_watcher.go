package app

import (
	"context"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// workspaceWatcher polls the database for changes made by other processes
// (the standalone MCP server), reloading the in-memory document and
// emitting Wails events so the frontend refreshes. Writes made by this
// process are recognized through the store's last-saved fingerprint and
// skipped.
type workspaceWatcher struct {
	ctx context.Context
	app *App

	mu     sync.Mutex
	last   string // last fingerprint seen
	stopCh chan struct{}
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newWorkspaceWatcher(ctx context.Context, app *App) *workspaceWatcher {
	return &workspaceWatcher{ctx: ctx, app: app, emittedApprovals: map[string]bool{}}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *workspaceWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *workspaceWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
}

func (w *workspaceWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *workspaceWatcher) check() {
	fp, err := w.app.projects.Fingerprint()
	if err != nil {
		return
	}

	w.mu.Lock()
	changed := w.last != "" && w.last != fp
	w.last = fp
	w.mu.Unlock()

	// Our own saves move the fingerprint too; only a write we didn't make
	// means another process edited the workspace. Last writer wins.
	if changed && fp != w.app.projects.LastSavedFingerprint() {
		if err := w.app.docs.Reload(); err != nil {
			wailsRuntime.LogErrorf(w.ctx, "workspace watcher: reload: %v", err)
		} else {
			wailsRuntime.EventsEmit(w.ctx, "mcp:activity", map[string]any{"changes": 1})
		}
	}

	w.checkApprovals()
}

// checkApprovals surfaces pending cross-process approval requests written
// to SQLite by the standalone MCP server.
func (w *workspaceWatcher) checkApprovals() {
	pending, err := w.app.approvals.Pending()
	if err != nil {
		return
	}

	alive := make(map[string]bool, len(pending))
	for _, p := range pending {
		alive[p.ID] = true

		w.mu.Lock()
		alreadySent := w.emittedApprovals[p.ID]
		if !alreadySent {
			w.emittedApprovals[p.ID] = true
		}
		w.mu.Unlock()

		if !alreadySent {
			wailsRuntime.EventsEmit(w.ctx, "mcp:approval-required", map[string]string{
				"id":          p.ID,
				"tool":        p.Tool,
				"description": p.Description,
				"createdAt":   p.CreatedAt.Format(time.RFC3339),
				"metadata":    p.Metadata,
			})
		}
	}

	// Clean up tracking for resolved/deleted approvals (standalone MCP
	// deletes rows after reading the verdict).
	w.mu.Lock()
	for id := range w.emittedApprovals {
		if !alive[id] {
			delete(w.emittedApprovals, id)
		}
	}
	w.mu.Unlock()
}
