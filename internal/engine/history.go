package engine

import "blueprint/internal/domain"

// MaxHistoryDepth bounds the past stack; the oldest snapshot is discarded
// beyond it.
const MaxHistoryDepth = 50

// History holds the bounded past/future snapshot stacks around the live
// "present" state owned by the engine. Snapshots are cheap: they alias the
// structurally shared project/page/tree values.
type History struct {
	past   []domain.Snapshot
	future []domain.Snapshot
}

// NewHistory returns empty stacks.
func NewHistory() *History {
	return &History{}
}

// Record pushes the previous present onto the past (discarding the oldest
// entry beyond MaxHistoryDepth) and clears the future.
func (h *History) Record(previous domain.Snapshot) {
	h.past = append(h.past, previous)
	if len(h.past) > MaxHistoryDepth {
		h.past = h.past[len(h.past)-MaxHistoryDepth:]
	}
	h.future = nil
}

// Undo pops the most recent past snapshot, pushing the present onto the
// future. ok is false when the past is empty.
func (h *History) Undo(present domain.Snapshot) (snap domain.Snapshot, ok bool) {
	if len(h.past) == 0 {
		return domain.Snapshot{}, false
	}
	snap = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, present)
	return snap, true
}

// Redo is the mirror of Undo.
func (h *History) Redo(present domain.Snapshot) (snap domain.Snapshot, ok bool) {
	if len(h.future) == 0 {
		return domain.Snapshot{}, false
	}
	snap = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, present)
	return snap, true
}

// Clear empties both stacks without touching the present.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

// Depths returns (past, future) sizes.
func (h *History) Depths() (int, int) {
	return len(h.past), len(h.future)
}
