package databind

import (
	_ "modernc.org/sqlite"

	"blueprint/internal/domain"
)

// openSQLite creates a provider for an external SQLite file. The Host
// field carries the file path. Opens in WAL mode with busy timeout for
// concurrent access.
func openSQLite(ds *domain.DataSource) (*sqlProvider, error) {
	dsn := ds.Host + "?_journal_mode=WAL&_busy_timeout=5000"
	return openSQL("sqlite", dsn)
}
