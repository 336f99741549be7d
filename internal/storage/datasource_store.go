package storage

import (
	"database/sql"
	"fmt"
	"time"

	"blueprint/internal/domain"
)

// DataSourceStore manages saved external database connections in SQLite.
type DataSourceStore struct {
	db *DB
}

func NewDataSourceStore(db *DB) *DataSourceStore {
	return &DataSourceStore{db: db}
}

func (s *DataSourceStore) Create(ds *domain.DataSource) error {
	now := time.Now()
	ds.CreatedAt = now
	ds.UpdatedAt = now
	if ds.OptionsJSON == "" {
		ds.OptionsJSON = "{}"
	}
	_, err := s.db.conn.Exec(
		`INSERT INTO data_sources (id, name, driver, host, port, database_name, username, ssl_mode, options_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.Driver, ds.Host, ds.Port, ds.Database, ds.Username, ds.SSLMode, ds.OptionsJSON, ds.CreatedAt, ds.UpdatedAt,
	)
	return err
}

func (s *DataSourceStore) Get(id string) (*domain.DataSource, error) {
	row := s.db.conn.QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, options_json, created_at, updated_at
		 FROM data_sources WHERE id = ?`, id,
	)
	ds := &domain.DataSource{}
	err := row.Scan(&ds.ID, &ds.Name, &ds.Driver, &ds.Host, &ds.Port, &ds.Database, &ds.Username, &ds.SSLMode, &ds.OptionsJSON, &ds.CreatedAt, &ds.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("data source not found: %s", id)
	}
	return ds, err
}

func (s *DataSourceStore) List() ([]domain.DataSource, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, options_json, created_at, updated_at
		 FROM data_sources ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []domain.DataSource
	for rows.Next() {
		var ds domain.DataSource
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Driver, &ds.Host, &ds.Port, &ds.Database, &ds.Username, &ds.SSLMode, &ds.OptionsJSON, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, ds)
	}
	return sources, rows.Err()
}

func (s *DataSourceStore) Update(ds *domain.DataSource) error {
	ds.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE data_sources SET name=?, driver=?, host=?, port=?, database_name=?, username=?, ssl_mode=?, options_json=?, updated_at=?
		 WHERE id=?`,
		ds.Name, ds.Driver, ds.Host, ds.Port, ds.Database, ds.Username, ds.SSLMode, ds.OptionsJSON, ds.UpdatedAt, ds.ID,
	)
	return err
}

func (s *DataSourceStore) Delete(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM data_sources WHERE id = ?`, id)
	return err
}
