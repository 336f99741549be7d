package app

import (
	"blueprint/internal/storage"
)

// ============================================================
// MCP Approvals
// ============================================================

// ListPendingMCPActions returns destructive tool calls awaiting approval.
// The standalone MCP process writes them to SQLite; the in-process server
// delivers them over events instead.
func (a *App) ListPendingMCPActions() ([]storage.PendingApproval, error) {
	return a.approvals.Pending()
}

// ApproveMCPAction approves a pending destructive tool call. In-process
// actions resolve over the approval queue; cross-process ones through the
// approvals table the standalone server polls.
func (a *App) ApproveMCPAction(actionID string) error {
	if a.mcpSrv != nil {
		a.mcpSrv.Approve(actionID)
	}
	// Cross-process approvals live in the table; resolving an id the
	// table doesn't know is fine, the in-process queue already took it.
	a.approvals.Resolve(actionID, true)
	return nil
}

// RejectMCPAction rejects a pending destructive tool call.
func (a *App) RejectMCPAction(actionID string) error {
	if a.mcpSrv != nil {
		a.mcpSrv.Reject(actionID)
	}
	a.approvals.Resolve(actionID, false)
	return nil
}
