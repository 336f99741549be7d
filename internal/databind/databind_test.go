package databind

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"blueprint/internal/domain"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	stmts := []string{
		`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT, price REAL)`,
		`INSERT INTO products (name, price) VALUES ('Desk', 249.0), ('Chair', 89.5), ('Lamp', 19.9)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return path
}

func TestSQLiteProvider_Fetch(t *testing.T) {
	path := seedSQLite(t)
	p, err := Open(&domain.DataSource{ID: "ds", Driver: domain.DriverSQLite, Host: path}, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer p.Close()

	if err := p.Test(context.Background()); err != nil {
		t.Fatalf("test: %v", err)
	}

	rs, err := p.Fetch(context.Background(), `SELECT name, price FROM products ORDER BY name`, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rs.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rs.Rows))
	}
	if rs.Rows[0]["name"] != "Chair" {
		t.Fatalf("first row = %v", rs.Rows[0])
	}
	if len(rs.Columns) != 2 || rs.Columns[0] != "name" {
		t.Fatalf("columns = %v", rs.Columns)
	}
}

func TestSQLiteProvider_LimitAndWriteGuard(t *testing.T) {
	path := seedSQLite(t)
	p, err := Open(&domain.DataSource{ID: "ds", Driver: domain.DriverSQLite, Host: path}, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer p.Close()

	rs, err := p.Fetch(context.Background(), `SELECT * FROM products`, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("limit ignored, rows = %d", len(rs.Rows))
	}

	if _, err := p.Fetch(context.Background(), `DELETE FROM products`, 0); err == nil {
		t.Fatal("write query must be rejected")
	}
}

func TestIsReadQuery(t *testing.T) {
	reads := []string{"SELECT 1", "  select * from t", "WITH x AS (SELECT 1) SELECT * FROM x", "PRAGMA table_info('t')"}
	for _, q := range reads {
		if !isReadQuery(q) {
			t.Errorf("%q should be a read", q)
		}
	}
	writes := []string{"INSERT INTO t VALUES (1)", "UPDATE t SET a = 1", "DROP TABLE t", "DELETE FROM t"}
	for _, q := range writes {
		if isReadQuery(q) {
			t.Errorf("%q should not be a read", q)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(&domain.DataSource{Driver: "oracle"}, ""); err == nil {
		t.Fatal("unsupported driver must fail")
	}
}

func TestPostgresDSN(t *testing.T) {
	ds := &domain.DataSource{Host: "db.internal", Port: 5433, Username: "app", Database: "shop", SSLMode: "require"}
	got := postgresDSN(ds, "s3cret")
	want := "host=db.internal port=5433 user=app password=s3cret dbname=shop sslmode=require"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}

	ds = &domain.DataSource{Host: "localhost", Username: "app", Database: "shop"}
	got = postgresDSN(ds, "")
	if got != "host=localhost port=5432 user=app password= dbname=shop sslmode=disable" {
		t.Fatalf("default dsn = %q", got)
	}
}

func TestMySQLDSN(t *testing.T) {
	ds := &domain.DataSource{Host: "db.internal", Username: "app", Database: "shop"}
	got := mysqlDSN(ds, "pw")
	want := "app:pw@tcp(db.internal:3306)/shop?parseTime=true&charset=utf8mb4"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
	ds.SSLMode = "require"
	if got := mysqlDSN(ds, "pw"); got != want+"&tls=true" {
		t.Fatalf("tls dsn = %q", got)
	}
}

func TestMongoURI(t *testing.T) {
	ds := &domain.DataSource{Host: "mongo.internal", Port: 27018, Username: "app"}
	if got := mongoURI(ds, "pw"); got != "mongodb://app:pw@mongo.internal:27018" {
		t.Fatalf("uri = %q", got)
	}

	ds = &domain.DataSource{Host: "mongodb+srv://app:<password>@cluster0.example.net/shop"}
	if got := mongoURI(ds, "pw"); got != "mongodb+srv://app:pw@cluster0.example.net/shop" {
		t.Fatalf("atlas uri = %q", got)
	}

	ds = &domain.DataSource{Host: "mongo.internal", OptionsJSON: `{"authSource": "admin"}`}
	if got := mongoURI(ds, ""); got != "mongodb://mongo.internal:27017?authSource=admin" {
		t.Fatalf("options uri = %q", got)
	}
}
