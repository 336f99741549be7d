package domain

import "time"

// Supported data source drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongoDB  = "mongodb"
	DriverSQLite   = "sqlite"
)

// DataSource is a saved connection to an external database that list
// components can bind to through their dataSource/dataQuery props.
// Passwords are never stored here; they live in the OS keychain keyed by
// the source id.
type DataSource struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Driver      string    `json:"driver"` // postgres, mysql, mongodb, sqlite
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	Database    string    `json:"database"`
	Username    string    `json:"username"`
	SSLMode     string    `json:"sslMode"`
	OptionsJSON string    `json:"optionsJson"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
