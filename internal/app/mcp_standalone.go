package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
	mcpserver "blueprint/internal/mcp"
	"blueprint/internal/secret"
	"blueprint/internal/service"
	"blueprint/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It shares the SQLite workspace with the desktop app; edits are persisted
// immediately after every mutating tool call so the GUI's watcher picks
// them up, and destructive calls wait on the approvals table.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dir := dataDir()
	db, err := storage.New(filepath.Join(dir, "blueprint.db"), dir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := noopEmitter{}
	eng := engine.New(domain.NewBuiltinRegistry(), engine.UUIDGenerator)
	projects := storage.NewProjectStore(db)

	docs := service.NewDocumentService(eng, projects, emitter)
	if err := docs.LoadWorkspace(); err != nil {
		log.Fatalf("Failed to load workspace: %v", err)
	}

	binds := service.NewDataBindService(
		storage.NewDataSourceStore(db),
		secret.NewKeychainStore(),
		docs,
		emitter,
	)

	// Every content change is flushed straight to SQLite; the desktop app
	// reloads on fingerprint change.
	save := service.NewAutosave(docs, "@every 2s")
	if err := save.Start(); err != nil {
		log.Fatalf("Failed to start autosave: %v", err)
	}
	defer save.Stop()
	defer docs.SaveIfDirty()

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    emitter,
		Docs:       docs,
		Binds:      binds,
		ApprovalDB: db.Conn(), // Enable SQLite-based approval IPC
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
