package storage

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"blueprint/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "blueprint.db"), filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seqGen() domain.IDGenerator {
	n := 0
	return func() string {
		n++
		return string(rune('a' + n - 1))
	}
}

func TestProjectStore_RoundTrip(t *testing.T) {
	db := testDB(t)
	store := NewProjectStore(db)

	gen := seqGen()
	p1 := domain.NewProject(gen, "First")
	p2 := domain.NewProject(gen, "Second")
	p1.Pages[0].Tree.Children = []*domain.Node{
		{ID: "n1", Type: "button", Props: map[string]any{"label": "Go", "colSpan": 12}},
	}
	snap := domain.Snapshot{Projects: []domain.Project{p1, p2}, CurrentProjectID: p2.ID}

	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot")
	}
	if got.CurrentProjectID != p2.ID {
		t.Fatalf("current project = %s, want %s", got.CurrentProjectID, p2.ID)
	}
	if len(got.Projects) != 2 || got.Projects[0].ID != p1.ID {
		t.Fatalf("projects out of order: %v", got.Projects)
	}
	child := got.Projects[0].Pages[0].Tree.Children[0]
	if child.ID != "n1" || child.PropInt("colSpan", 0) != 12 {
		t.Fatalf("node did not round-trip: %+v", child)
	}
}

func TestProjectStore_SaveDropsDeletedProjects(t *testing.T) {
	db := testDB(t)
	store := NewProjectStore(db)

	gen := seqGen()
	p1 := domain.NewProject(gen, "First")
	p2 := domain.NewProject(gen, "Second")
	save := func(snap domain.Snapshot) {
		t.Helper()
		if err := store.SaveSnapshot(snap); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	save(domain.Snapshot{Projects: []domain.Project{p1, p2}, CurrentProjectID: p1.ID})
	save(domain.Snapshot{Projects: []domain.Project{p1}, CurrentProjectID: p1.ID})

	got, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Projects) != 1 || got.Projects[0].ID != p1.ID {
		t.Fatalf("deleted project survived: %v", got.Projects)
	}
}

func TestProjectStore_FreshDatabaseIsEmpty(t *testing.T) {
	db := testDB(t)
	got, err := NewProjectStore(db).LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("fresh database should yield nil, got %+v", got)
	}
}

func TestProjectStore_SkipsUnreadableRows(t *testing.T) {
	db := testDB(t)
	store := NewProjectStore(db)
	gen := seqGen()

	good := domain.NewProject(gen, "Good")
	if err := store.SaveSnapshot(domain.Snapshot{Projects: []domain.Project{good}, CurrentProjectID: good.ID}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := db.Conn().Exec(
		`INSERT INTO projects (id, name, doc_json, sort_order) VALUES ('bad', 'Bad', '{not json', 99)`,
	)
	if err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	got, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("load with corrupt row: %v", err)
	}
	if got == nil || len(got.Projects) != 1 || got.Projects[0].ID != good.ID {
		t.Fatalf("loadable project lost: %+v", got)
	}
	if got.CurrentProjectID != good.ID {
		t.Fatalf("current project = %s, want %s", got.CurrentProjectID, good.ID)
	}
}

func TestProjectStore_AllRowsUnreadableActsFresh(t *testing.T) {
	db := testDB(t)
	store := NewProjectStore(db)

	_, err := db.Conn().Exec(
		`INSERT INTO projects (id, name, doc_json, sort_order) VALUES ('bad', 'Bad', '{"name": "no id"}', 0)`,
	)
	if err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	got, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("fully unreadable database must act fresh, got %+v", got)
	}
}

func TestProjectStore_RepairsDanglingCurrent(t *testing.T) {
	db := testDB(t)
	store := NewProjectStore(db)
	gen := seqGen()
	p := domain.NewProject(gen, "Only")
	if err := store.SaveSnapshot(domain.Snapshot{Projects: []domain.Project{p}, CurrentProjectID: "gone"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentProjectID != p.ID {
		t.Fatalf("dangling current pointer not repaired: %s", got.CurrentProjectID)
	}
}

func TestFingerprint_ChangesOnSave(t *testing.T) {
	db := testDB(t)
	store := NewProjectStore(db)
	gen := seqGen()

	before, err := store.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	p := domain.NewProject(gen, "P")
	if err := store.SaveSnapshot(domain.Snapshot{Projects: []domain.Project{p}, CurrentProjectID: p.ID}); err != nil {
		t.Fatalf("save: %v", err)
	}
	after, err := store.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if before == after {
		t.Fatal("fingerprint must change after a save")
	}
}

// ── migration ──────────────────────────────────────────────

func TestMigrateProject_CurrentVersionPassesThrough(t *testing.T) {
	gen := seqGen()
	src := domain.NewProject(gen, "P")
	raw, _ := json.Marshal(src)

	got, err := MigrateProject(raw)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if diff := cmp.Diff(src, got); diff != "" {
		t.Fatalf("current-version document changed:\n%s", diff)
	}
}

func TestMigrateProject_V1SpanRename(t *testing.T) {
	raw := []byte(`{
		"id": "p1", "name": "Legacy", "version": 1,
		"pages": [{"id": "pg1", "name": "Page 1", "tree": {
			"id": "root", "type": "grid", "props": {"columns": 12},
			"children": [{"id": "n1", "type": "button", "props": {"span": 6}}]
		}}],
		"currentPageId": "pg1"
	}`)
	got, err := MigrateProject(raw)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if got.Version != domain.SchemaVersion {
		t.Fatalf("version = %d, want %d", got.Version, domain.SchemaVersion)
	}
	n := got.Pages[0].Tree.Children[0]
	if n.PropInt("colSpan", 0) != 6 {
		t.Fatalf("span not renamed: %v", n.Props)
	}
	if _, ok := n.Props["span"]; ok {
		t.Fatal("legacy span prop must be dropped")
	}
}

func TestMigrateProject_WrapsForeignRoot(t *testing.T) {
	raw := []byte(`{
		"id": "p1", "name": "P", "version": 2,
		"pages": [{"id": "pg1", "name": "Page 1", "tree": {"id": "x", "type": "container", "props": {}}}],
		"currentPageId": "pg1"
	}`)
	got, err := MigrateProject(raw)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	tree := got.Pages[0].Tree
	if tree.ID != domain.RootNodeID {
		t.Fatal("foreign-rooted tree must be wrapped")
	}
	if len(tree.Children) != 1 || tree.Children[0].ID != "x" {
		t.Fatalf("original tree lost: %+v", tree.Children)
	}
}

func TestMigrateProject_SynthesizesMissingPieces(t *testing.T) {
	raw := []byte(`{"id": "p1"}`)
	got, err := MigrateProject(raw)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(got.Pages) != 1 || got.Pages[0].Tree == nil {
		t.Fatal("missing pages must be synthesized")
	}
	if got.CurrentPageID != got.Pages[0].ID {
		t.Fatal("current page must point at the synthesized page")
	}
	if got.Name == "" {
		t.Fatal("name must be defaulted")
	}
}

func TestMigrateProject_Rejections(t *testing.T) {
	if _, err := MigrateProject([]byte(`not json`)); err == nil {
		t.Fatal("malformed json must fail")
	}
	if _, err := MigrateProject([]byte(`{"name": "no id"}`)); err == nil {
		t.Fatal("missing id must fail")
	}
	if _, err := MigrateProject([]byte(`{"id": "p", "version": 99}`)); err == nil {
		t.Fatal("future schema version must fail")
	}
}

// ── approvals ──────────────────────────────────────────────

func TestApprovalStore_ResolveLifecycle(t *testing.T) {
	db := testDB(t)
	store := NewApprovalStore(db)

	_, err := db.Conn().Exec(
		`INSERT INTO mcp_approvals (id, tool, description, status, metadata) VALUES ('a1', 'remove_node', 'Delete Hero section', 'pending', '{}')`,
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	pending, err := store.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Tool != "remove_node" {
		t.Fatalf("pending = %+v", pending)
	}

	if err := store.Resolve("a1", true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var status string
	db.Conn().QueryRow(`SELECT status FROM mcp_approvals WHERE id = 'a1'`).Scan(&status)
	if status != "approved" {
		t.Fatalf("status = %s", status)
	}

	// Resolving twice fails; the row is no longer pending.
	if err := store.Resolve("a1", false); err == nil {
		t.Fatal("double resolve must fail")
	}
	if err := store.Resolve("missing", true); err == nil {
		t.Fatal("unknown id must fail")
	}
}

func TestApprovalStore_PruneStale(t *testing.T) {
	db := testDB(t)
	store := NewApprovalStore(db)

	old := time.Now().Add(-time.Hour)
	db.Conn().Exec(`INSERT INTO mcp_approvals (id, tool, status, created_at) VALUES ('old', 'x', 'pending', ?)`, old)
	db.Conn().Exec(`INSERT INTO mcp_approvals (id, tool, status) VALUES ('new', 'x', 'pending')`)

	if err := store.PruneStale(10 * time.Minute); err != nil {
		t.Fatalf("prune: %v", err)
	}
	pending, _ := store.Pending()
	if len(pending) != 1 || pending[0].ID != "new" {
		t.Fatalf("pending after prune = %+v", pending)
	}
}

// ── data sources ───────────────────────────────────────────

func TestDataSourceStore_CRUD(t *testing.T) {
	db := testDB(t)
	store := NewDataSourceStore(db)

	ds := &domain.DataSource{
		ID: "ds1", Name: "Analytics", Driver: "postgres",
		Host: "localhost", Port: 5432, Database: "analytics", Username: "app", SSLMode: "disable",
	}
	if err := store.Create(ds); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get("ds1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Analytics" || got.Driver != "postgres" || got.OptionsJSON != "{}" {
		t.Fatalf("got %+v", got)
	}

	got.Name = "Analytics (prod)"
	if err := store.Update(got); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Analytics (prod)" {
		t.Fatalf("list = %+v", list)
	}

	if err := store.Delete("ds1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("ds1"); err == nil {
		t.Fatal("deleted source must not be found")
	}
}
