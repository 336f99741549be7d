package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
	"blueprint/internal/secret"
	"blueprint/internal/storage"
)

// memStore is an in-memory domain.ProjectStore.
type memStore struct {
	snap  *domain.Snapshot
	saves int
}

func (m *memStore) SaveSnapshot(snap domain.Snapshot) error {
	m.saves++
	cp := snap
	m.snap = &cp
	return nil
}

func (m *memStore) LoadSnapshot() (*domain.Snapshot, error) {
	return m.snap, nil
}

func seqGen() domain.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func newDocs(t *testing.T, store domain.ProjectStore) (*DocumentService, *MockEmitter) {
	t.Helper()
	eng := engine.New(domain.NewBuiltinRegistry(), seqGen())
	emitter := &MockEmitter{}
	return NewDocumentService(eng, store, emitter), emitter
}

func TestLoadWorkspace_SeedsDefaultOnFreshStore(t *testing.T) {
	store := &memStore{}
	docs, _ := newDocs(t, store)

	if err := docs.LoadWorkspace(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.snap == nil {
		t.Fatal("fresh store must be seeded with the default workspace")
	}
	if len(store.snap.Projects) != 1 || !store.snap.Projects[0].IsExampleProject {
		t.Fatalf("seeded snapshot = %+v", store.snap)
	}
}

func TestLoadWorkspace_RestoresSavedSnapshot(t *testing.T) {
	gen := seqGen()
	p := domain.NewProject(gen, "Saved")
	store := &memStore{snap: &domain.Snapshot{Projects: []domain.Project{p}, CurrentProjectID: p.ID}}
	docs, _ := newDocs(t, store)

	if err := docs.LoadWorkspace(); err != nil {
		t.Fatalf("load: %v", err)
	}
	state := docs.State()
	if len(state.Projects) != 1 || state.Projects[0].Name != "Saved" {
		t.Fatalf("state = %+v", state.Projects)
	}
	if docs.Dirty() {
		t.Fatal("restored workspace must start clean")
	}
}

func TestDispatch_EmitsOnlyOnChange(t *testing.T) {
	docs, emitter := newDocs(t, &memStore{})

	if docs.Dispatch(engine.RemoveNode{NodeID: "missing"}) {
		t.Fatal("unknown target must not change state")
	}
	if len(emitter.Events) != 0 {
		t.Fatalf("no-op dispatch emitted %v", emitter.Events)
	}

	if !docs.Dispatch(engine.AddPage{Name: "Second"}) {
		t.Fatal("add page should change state")
	}
	ev := emitter.Last(EventStateChanged)
	if ev == nil {
		t.Fatal("change must be broadcast")
	}
	if _, ok := ev.Data.(domain.AppState); !ok {
		t.Fatalf("event payload = %T", ev.Data)
	}
}

func TestSave_PersistsAndClearsDirty(t *testing.T) {
	store := &memStore{}
	docs, emitter := newDocs(t, store)

	docs.Dispatch(engine.AddPage{Name: "Second"})
	if !docs.Dirty() {
		t.Fatal("edit must dirty the document")
	}
	if err := docs.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if docs.Dirty() {
		t.Fatal("save must clear dirty")
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d", store.saves)
	}
	if emitter.Last(EventDocumentSaved) == nil {
		t.Fatal("save must be broadcast")
	}
}

func TestSaveIfDirty_SkipsWhenClean(t *testing.T) {
	store := &memStore{}
	docs, _ := newDocs(t, store)

	if err := docs.SaveIfDirty(); err != nil {
		t.Fatalf("save-if-dirty: %v", err)
	}
	if store.saves != 0 {
		t.Fatal("clean document must not be re-persisted")
	}

	docs.Dispatch(engine.AddPage{Name: "Second"})
	if err := docs.SaveIfDirty(); err != nil {
		t.Fatalf("save-if-dirty: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want 1", store.saves)
	}
}

func TestReload_ReplacesStateAndBroadcasts(t *testing.T) {
	store := &memStore{}
	docs, emitter := newDocs(t, store)
	if err := docs.LoadWorkspace(); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Another process rewrote storage.
	gen := seqGen()
	p := domain.NewProject(gen, "External Edit")
	store.snap = &domain.Snapshot{Projects: []domain.Project{p}, CurrentProjectID: p.ID}

	if err := docs.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := docs.State().Projects[0].Name; got != "External Edit" {
		t.Fatalf("state after reload = %s", got)
	}
	if emitter.Last(EventWorkspaceReloaded) == nil {
		t.Fatal("reload must be broadcast")
	}
}

func TestInstallProject_PersistsImmediately(t *testing.T) {
	store := &memStore{}
	docs, emitter := newDocs(t, store)

	gen := seqGen()
	p := domain.NewProject(gen, "Imported")
	if err := docs.InstallProject(p); err != nil {
		t.Fatalf("install: %v", err)
	}
	if store.saves != 1 {
		t.Fatal("install must persist")
	}
	if emitter.Last(EventProjectImported) == nil {
		t.Fatal("install must be broadcast")
	}
	if docs.State().CurrentProjectID != p.ID {
		t.Fatal("installed project must become current")
	}

	// Rejected installs surface an error.
	if err := docs.InstallProject(domain.Project{}); err == nil {
		t.Fatal("empty project must be rejected")
	}
}

func TestImportWatcher_ImportFile(t *testing.T) {
	docs, emitter := newDocs(t, &memStore{})

	dir := t.TempDir()
	gen := seqGen()
	p := domain.NewProject(gen, "Dropped In")
	raw, _ := json.Marshal(p)
	path := filepath.Join(dir, "project.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := NewImportWatcher(docs, dir)
	w.importFile(path)

	if docs.State().CurrentProject().Name != "Dropped In" {
		t.Fatal("dropped project must be installed")
	}
	if emitter.Last(EventProjectImported) == nil {
		t.Fatal("import must be broadcast")
	}
	if _, err := os.Stat(path + ".imported"); err != nil {
		t.Fatal("processed file must be renamed")
	}

	// Malformed files stay put.
	bad := filepath.Join(dir, "broken.json")
	os.WriteFile(bad, []byte("not json"), 0644)
	w.importFile(bad)
	if _, err := os.Stat(bad); err != nil {
		t.Fatal("failed import must leave the file in place")
	}
}

func TestImportWatcher_StartCatchesUpExistingFiles(t *testing.T) {
	docs, _ := newDocs(t, &memStore{})

	dir := t.TempDir()
	gen := seqGen()
	p := domain.NewProject(gen, "Preexisting")
	raw, _ := json.Marshal(p)
	os.WriteFile(filepath.Join(dir, "old.json"), raw, 0644)

	w := NewImportWatcher(docs, dir)
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if docs.State().CurrentProject().Name != "Preexisting" {
		t.Fatal("files present at startup must be imported")
	}
}

// ── databind service ───────────────────────────────────────

func bindTestDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "blueprint.db"), filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedExternalSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "external.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, title TEXT)`)
	db.Exec(`INSERT INTO items (title) VALUES ('First'), ('Second')`)
	return path
}

func TestDataBindService_FetchWithStoredCredentials(t *testing.T) {
	db := bindTestDB(t)
	docs, _ := newDocs(t, &memStore{})
	secrets := secret.NewMemoryStore()
	binds := NewDataBindService(storage.NewDataSourceStore(db), secrets, docs, &MockEmitter{})

	path := seedExternalSQLite(t)
	ds, err := binds.CreateSource(domain.DataSource{Name: "Local", Driver: domain.DriverSQLite, Host: path}, "stored-password")
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	if pw, _ := secrets.Get(ds.ID); string(pw) != "stored-password" {
		t.Fatal("password must land in the secret store")
	}

	rs, err := binds.Fetch(context.Background(), ds.ID, `SELECT title FROM items ORDER BY id`, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rs.Rows) != 2 || rs.Rows[0]["title"] != "First" {
		t.Fatalf("rows = %v", rs.Rows)
	}

	if err := binds.DeleteSource(ds.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if pw, _ := secrets.Get(ds.ID); pw != nil {
		t.Fatal("credentials must be deleted with the source")
	}
}

func TestDataBindService_RefreshPageEmitsBindingData(t *testing.T) {
	db := bindTestDB(t)
	docs, _ := newDocs(t, &memStore{})
	secrets := secret.NewMemoryStore()
	emitter := &MockEmitter{}
	binds := NewDataBindService(storage.NewDataSourceStore(db), secrets, docs, emitter)

	path := seedExternalSQLite(t)
	ds, err := binds.CreateSource(domain.DataSource{Name: "Local", Driver: domain.DriverSQLite, Host: path}, "")
	if err != nil {
		t.Fatalf("create source: %v", err)
	}

	list := engine.NewNode(domain.NewBuiltinRegistry(), seqGen(), "list", "Items")
	docs.Dispatch(engine.InsertNode{Node: list, Index: -1})
	docs.Dispatch(engine.UpdateProps{NodeID: list.ID, Props: map[string]any{
		"dataSource": ds.ID,
		"dataQuery":  `SELECT title FROM items ORDER BY id`,
	}})

	binds.RefreshPage(context.Background())

	ev := emitter.Last(EventBindingData)
	if ev == nil {
		t.Fatal("bound node must produce a data event")
	}
	data := ev.Data.(BindingData)
	if data.NodeID != list.ID || len(data.Rows) != 2 {
		t.Fatalf("binding data = %+v", data)
	}
}
