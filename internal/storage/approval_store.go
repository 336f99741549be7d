package storage

import (
	"fmt"
	"time"
)

// PendingApproval is a destructive AI tool call awaiting a user decision.
// Rows are written by the standalone AI process and resolved by the
// desktop app.
type PendingApproval struct {
	ID          string    `json:"id"`
	Tool        string    `json:"tool"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // pending, approved, rejected
	Metadata    string    `json:"metadata"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApprovalStore manages the cross-process approval handshake rows.
type ApprovalStore struct {
	db *DB
}

func NewApprovalStore(db *DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

// Pending returns unresolved approvals, oldest first.
func (s *ApprovalStore) Pending() ([]PendingApproval, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, tool, description, status, metadata, created_at
		 FROM mcp_approvals WHERE status = 'pending' ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var pending []PendingApproval
	for rows.Next() {
		var a PendingApproval
		if err := rows.Scan(&a.ID, &a.Tool, &a.Description, &a.Status, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		pending = append(pending, a)
	}
	return pending, rows.Err()
}

// Resolve marks a pending approval approved or rejected. The requesting
// process observes the status change and deletes the row.
func (s *ApprovalStore) Resolve(id string, approved bool) error {
	status := "rejected"
	if approved {
		status = "approved"
	}
	res, err := s.db.conn.Exec(
		`UPDATE mcp_approvals SET status = ? WHERE id = ? AND status = 'pending'`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("resolve approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("approval not pending: %s", id)
	}
	return nil
}

// PruneStale drops approvals older than maxAge regardless of status;
// crashed requesters leave rows behind otherwise.
func (s *ApprovalStore) PruneStale(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	_, err := s.db.conn.Exec(`DELETE FROM mcp_approvals WHERE created_at < ?`, cutoff)
	return err
}
