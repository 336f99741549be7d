package domain

// AppState is the whole editor state handled by the engine's reducer.
// It is treated as an immutable value: every transition produces a new
// state sharing all untouched projects, pages, and subtrees with its
// predecessor.
type AppState struct {
	Projects         []Project `json:"projects"`
	CurrentProjectID string    `json:"currentProjectId"`

	// Session / view state — excluded from history snapshots and from
	// persistence.
	SelectedNodeIDs    []string `json:"selectedNodeIds"`
	Clipboard          *Node    `json:"clipboard,omitempty"`
	CutNodeID          string   `json:"cutNodeId,omitempty"`
	ShowGridLines      bool     `json:"showGridLines"`
	ShowColumnLines    bool     `json:"showColumnLines"`
	PlayMode           bool     `json:"playMode"`
	EditingComponentID string   `json:"editingComponentId,omitempty"` // isolation editing mode
}

// Snapshot is the persisted-content subset of AppState: exactly what is
// needed to reconstruct all projects, pages, and trees. Selection,
// clipboard, and view toggles are session-local and excluded.
type Snapshot struct {
	Projects         []Project `json:"projects"`
	CurrentProjectID string    `json:"currentProjectId"`
}

// SnapshotOf captures the persisted-content subset of a state.
func SnapshotOf(s AppState) Snapshot {
	return Snapshot{Projects: s.Projects, CurrentProjectID: s.CurrentProjectID}
}

// WithSnapshot returns a copy of s with its document content replaced,
// keeping session state (selection, clipboard, toggles) intact.
func (s AppState) WithSnapshot(snap Snapshot) AppState {
	s.Projects = snap.Projects
	s.CurrentProjectID = snap.CurrentProjectID
	return s
}

// CurrentProject returns the current project, or nil. The value receiver
// keeps the method callable on rvalue states (e.g. engine.State() results);
// the returned pointer aliases the state's shared Projects backing array.
func (s AppState) CurrentProject() *Project {
	for i := range s.Projects {
		if s.Projects[i].ID == s.CurrentProjectID {
			return &s.Projects[i]
		}
	}
	return nil
}

// ProjectStore persists the snapshot shape {projects, currentProjectId}.
// Implemented by storage.ProjectStore on SQLite.
type ProjectStore interface {
	SaveSnapshot(snap Snapshot) error
	LoadSnapshot() (*Snapshot, error)
}
