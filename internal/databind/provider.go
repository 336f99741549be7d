// Package databind fetches rows from external databases for list
// components bound through their dataSource/dataQuery props. Bindings are
// strictly read-only: the canvas renders data, it never writes it back.
package databind

import (
	"context"
	"fmt"

	"blueprint/internal/domain"
)

// RowSet is the result of one binding fetch, shaped for direct prop
// injection: one map per row, keyed by column name.
type RowSet struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Provider abstracts one open data source connection.
type Provider interface {
	// Test verifies connectivity.
	Test(ctx context.Context) error

	// Fetch runs a read query and returns at most limit rows.
	Fetch(ctx context.Context, query string, limit int) (*RowSet, error)

	// Close releases the connection.
	Close() error
}

// DefaultFetchLimit caps binding fetches when the component doesn't say.
const DefaultFetchLimit = 100

// Open creates a Provider for the given data source. The password comes
// from the secret store, never from the data source record.
func Open(ds *domain.DataSource, password string) (Provider, error) {
	switch ds.Driver {
	case domain.DriverSQLite:
		return openSQLite(ds)
	case domain.DriverMySQL:
		return openSQL("mysql", mysqlDSN(ds, password))
	case domain.DriverPostgres:
		return openSQL("postgres", postgresDSN(ds, password))
	case domain.DriverMongoDB:
		return openMongo(ds, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", ds.Driver)
	}
}
