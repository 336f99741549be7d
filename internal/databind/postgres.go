package databind

import (
	"fmt"

	_ "github.com/lib/pq"

	"blueprint/internal/domain"
)

// postgresDSN constructs a Postgres connection string from a DataSource.
func postgresDSN(ds *domain.DataSource, password string) string {
	port := ds.Port
	if port == 0 {
		port = 5432
	}
	sslMode := ds.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ds.Host, port, ds.Username, password, ds.Database, sslMode,
	)
}
