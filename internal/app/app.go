package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
	mcpserver "blueprint/internal/mcp"
	"blueprint/internal/secret"
	"blueprint/internal/service"
	"blueprint/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db        *storage.DB
	projects  *storage.ProjectStore
	approvals *storage.ApprovalStore

	docs    *service.DocumentService
	binds   *service.DataBindService
	save    *service.Autosave
	imports *service.ImportWatcher
	watcher *workspaceWatcher

	mcpSrv *mcpserver.Server
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter bridges service events onto the Wails event bus.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	if ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(ctx, event, data)
}

// dataDir returns the per-user data directory.
func dataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "blueprint")
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	dir := dataDir()
	db, err := storage.New(filepath.Join(dir, "blueprint.db"), dir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db
	a.projects = storage.NewProjectStore(db)
	a.approvals = storage.NewApprovalStore(db)
	// Crashed MCP processes leave approval rows behind.
	a.approvals.PruneStale(24 * time.Hour)

	emitter := wailsEmitter{}
	eng := engine.New(domain.NewBuiltinRegistry(), engine.UUIDGenerator)

	a.docs = service.NewDocumentService(eng, a.projects, emitter)
	a.docs.SetContext(ctx)
	if err := a.docs.LoadWorkspace(); err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to load workspace: %v", err)
		return
	}

	a.binds = service.NewDataBindService(
		storage.NewDataSourceStore(db),
		secret.NewKeychainStore(),
		a.docs,
		emitter,
	)

	// In-process MCP server: approvals flow over Wails events, tool calls
	// share the document service with the UI.
	a.mcpSrv = mcpserver.New(ctx, mcpserver.Deps{
		Emitter: emitter,
		Docs:    a.docs,
		Binds:   a.binds,
	})

	a.save = service.NewAutosave(a.docs, "")
	if err := a.save.Start(); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start autosave: %v", err)
	}

	a.imports = service.NewImportWatcher(a.docs, db.ImportsDir())
	if err := a.imports.Start(); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start import watcher: %v", err)
	}

	if err := a.binds.StartRefresh(ctx, ""); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start binding refresh: %v", err)
	}

	a.watcher = newWorkspaceWatcher(ctx, a)
	a.watcher.Start()
}

// Shutdown is called when the app is closing. Unsaved changes are flushed
// before the database closes.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.binds != nil {
		a.binds.StopRefresh()
	}
	if a.imports != nil {
		a.imports.Stop()
	}
	if a.save != nil {
		a.save.Stop()
	}
	if a.docs != nil {
		a.docs.SaveIfDirty()
	}
	if a.db != nil {
		a.db.Close()
	}
}
