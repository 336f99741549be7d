package engine

import (
	"fmt"
	"testing"

	"blueprint/internal/domain"
)

// snap builds a distinguishable snapshot; the history never inspects the
// contents, only shuttles values between stacks.
func snap(id string) domain.Snapshot {
	return domain.Snapshot{CurrentProjectID: id}
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Record(snap("v1"))
	h.Record(snap("v2"))

	got, ok := h.Undo(snap("v3"))
	if !ok || got.CurrentProjectID != "v2" {
		t.Fatalf("undo = (%v, %v)", got.CurrentProjectID, ok)
	}
	got, ok = h.Redo(got)
	if !ok || got.CurrentProjectID != "v3" {
		t.Fatalf("redo = (%v, %v)", got.CurrentProjectID, ok)
	}
	if past, future := h.Depths(); past != 2 || future != 0 {
		t.Fatalf("depths = (%d, %d)", past, future)
	}
}

func TestHistory_EmptyStacks(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Undo(snap("present")); ok {
		t.Fatal("undo on empty past must fail")
	}
	if _, ok := h.Redo(snap("present")); ok {
		t.Fatal("redo on empty future must fail")
	}
}

func TestHistory_RecordClearsFuture(t *testing.T) {
	h := NewHistory()
	h.Record(snap("v1"))
	h.Undo(snap("v2"))
	if _, future := h.Depths(); future != 1 {
		t.Fatal("expected a redo entry")
	}
	h.Record(snap("v2b"))
	if _, future := h.Depths(); future != 0 {
		t.Fatal("record must clear the future")
	}
}

func TestHistory_DiscardsOldestBeyondCap(t *testing.T) {
	h := NewHistory()
	for i := 0; i < MaxHistoryDepth+5; i++ {
		h.Record(snap(fmt.Sprintf("v%d", i)))
	}
	past, _ := h.Depths()
	if past != MaxHistoryDepth {
		t.Fatalf("past = %d, want %d", past, MaxHistoryDepth)
	}
	// The oldest surviving entry is v5; v0..v4 were discarded.
	var got domain.Snapshot
	for i := 0; i < MaxHistoryDepth; i++ {
		got, _ = h.Undo(snap("present"))
	}
	if got.CurrentProjectID != "v5" {
		t.Fatalf("deepest entry = %s, want v5", got.CurrentProjectID)
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory()
	h.Record(snap("v1"))
	h.Undo(snap("v2"))
	h.Clear()
	if past, future := h.Depths(); past != 0 || future != 0 {
		t.Fatalf("depths after clear = (%d, %d)", past, future)
	}
}
