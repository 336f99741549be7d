package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"blueprint/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Import Watcher — drop a .json project file into the imports
// directory and it shows up in the workspace
// ─────────────────────────────────────────────────────────────

// ImportWatcher watches the imports directory for project documents.
// Files are migrated to the current schema, installed, and renamed with
// an .imported suffix so they are not picked up twice.
type ImportWatcher struct {
	docs    *DocumentService
	dir     string
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewImportWatcher(docs *DocumentService, dir string) *ImportWatcher {
	return &ImportWatcher{docs: docs, dir: dir, timers: make(map[string]*time.Timer)}
}

// Start creates the directory if needed, processes files already sitting
// in it, and begins watching for new ones.
func (w *ImportWatcher) Start() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create imports dir: %w", err)
	}

	// Catch up on files dropped while the app wasn't running.
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read imports dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			w.importFile(filepath.Join(w.dir, e.Name()))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch imports dir: %w", err)
	}
	w.watcher = watcher

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.loop(ctx)
	return nil
}

func (w *ImportWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			// Debounce per file: editors and downloads write in bursts.
			path := event.Name
			w.mu.Lock()
			if t, exists := w.timers[path]; exists {
				t.Stop()
			}
			w.timers[path] = time.AfterFunc(500*time.Millisecond, func() {
				w.mu.Lock()
				delete(w.timers, path)
				w.mu.Unlock()
				w.importFile(path)
			})
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("import watcher: error: %v", err)
		}
	}
}

// importFile migrates and installs one project document. Failures leave
// the file in place for the user to inspect.
func (w *ImportWatcher) importFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("import watcher: read %q: %v", path, err)
		return
	}
	p, err := storage.MigrateProject(raw)
	if err != nil {
		log.Printf("import watcher: migrate %q: %v", path, err)
		return
	}
	if err := w.docs.InstallProject(p); err != nil {
		log.Printf("import watcher: install %q: %v", path, err)
		return
	}
	if err := os.Rename(path, path+".imported"); err != nil {
		log.Printf("import watcher: rename %q: %v", path, err)
	}
	log.Printf("import watcher: installed project %s from %q", p.ID, filepath.Base(path))
}

// Stop tears the watcher down.
func (w *ImportWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()
}
