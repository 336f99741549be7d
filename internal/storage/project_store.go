package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"blueprint/internal/domain"
)

// ProjectStore implements domain.ProjectStore using SQLite. Each project
// is one row holding the whole document as JSON; the workspace table holds
// the current-project pointer.
type ProjectStore struct {
	db *DB

	mu        sync.Mutex
	lastSaved string // fingerprint after our own last write
}

func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// SaveSnapshot writes the whole workspace in one transaction: every
// project row is upserted, rows for deleted projects are dropped, and the
// current-project pointer is updated.
func (s *ProjectStore) SaveSnapshot(snap domain.Snapshot) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	kept := make([]any, 0, len(snap.Projects))
	for i, p := range snap.Projects {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal project %s: %w", p.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO projects (id, name, doc_json, sort_order, updated_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, doc_json = excluded.doc_json,
			   sort_order = excluded.sort_order, updated_at = excluded.updated_at`,
			p.ID, p.Name, string(doc), i, now,
		)
		if err != nil {
			return fmt.Errorf("upsert project %s: %w", p.ID, err)
		}
		kept = append(kept, p.ID)
	}

	if len(kept) > 0 {
		placeholders := "?"
		for range kept[1:] {
			placeholders += ", ?"
		}
		if _, err := tx.Exec(`DELETE FROM projects WHERE id NOT IN (`+placeholders+`)`, kept...); err != nil {
			return fmt.Errorf("prune projects: %w", err)
		}
	} else {
		if _, err := tx.Exec(`DELETE FROM projects`); err != nil {
			return fmt.Errorf("prune projects: %w", err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO workspace (id, current_project_id, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET current_project_id = excluded.current_project_id, updated_at = excluded.updated_at`,
		snap.CurrentProjectID, now,
	)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// Remember what our own write looks like so the workspace watcher can
	// tell local saves apart from another process rewriting the database.
	if fp, err := s.Fingerprint(); err == nil {
		s.mu.Lock()
		s.lastSaved = fp
		s.mu.Unlock()
	}
	return nil
}

// LastSavedFingerprint returns the fingerprint recorded after this
// process's most recent SaveSnapshot, or "" before the first save.
func (s *ProjectStore) LastSavedFingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// LoadSnapshot reads the whole workspace. A fresh database yields
// (nil, nil); callers seed the default workspace in that case. Documents
// written by older versions are upgraded in place via MigrateProject.
// A row whose document cannot be decoded is skipped so one corrupt
// project never takes the rest of the workspace down; if nothing is
// loadable the result is the same as a fresh database.
func (s *ProjectStore) LoadSnapshot() (*domain.Snapshot, error) {
	rows, err := s.db.conn.Query(`SELECT id, doc_json FROM projects ORDER BY sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p, err := MigrateProject([]byte(doc))
		if err != nil {
			log.Printf("storage: skipping unreadable project %s: %v", id, err)
			continue
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil // fresh or fully unreadable database
	}

	var currentID string
	err = s.db.conn.QueryRow(`SELECT current_project_id FROM workspace WHERE id = 1`).Scan(&currentID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if !containsProject(projects, currentID) {
		currentID = projects[0].ID
	}

	return &domain.Snapshot{Projects: projects, CurrentProjectID: currentID}, nil
}

// Fingerprint returns a value that changes whenever another process
// rewrites the stored workspace. The desktop app polls it to pick up
// edits made through the standalone AI process.
func (s *ProjectStore) Fingerprint() (string, error) {
	var count int
	var latest sql.NullString
	err := s.db.conn.QueryRow(`SELECT COUNT(*), MAX(updated_at) FROM projects`).Scan(&count, &latest)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	var current sql.NullString
	if err := s.db.conn.QueryRow(`SELECT current_project_id FROM workspace WHERE id = 1`).Scan(&current); err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return fmt.Sprintf("%d|%s|%s", count, latest.String, current.String), nil
}

func containsProject(projects []domain.Project, id string) bool {
	for i := range projects {
		if projects[i].ID == id {
			return true
		}
	}
	return false
}
