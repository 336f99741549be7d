package layout

import (
	"testing"

	"blueprint/internal/domain"
)

func TestSpanFor_EvenDivision(t *testing.T) {
	a := New()
	cases := []struct {
		cols, count, want int
	}{
		{12, 1, 12},
		{12, 2, 6},
		{12, 3, 4},
		{12, 4, 4}, // floor at a third of the row
		{12, 6, 4},
		{6, 2, 3},
		{6, 4, 2},
	}
	for _, c := range cases {
		if got := a.SpanFor(c.cols, c.count); got != c.want {
			t.Errorf("SpanFor(%d, %d) = %d, want %d", c.cols, c.count, got, c.want)
		}
	}
}

func TestSpanFor_DefaultsForDegenerateInput(t *testing.T) {
	a := New()
	if got := a.SpanFor(0, 1); got != domain.DefaultGridColumns {
		t.Errorf("SpanFor(0, 1) = %d, want full default row", got)
	}
	if got := a.SpanFor(2, 99); got < 1 {
		t.Errorf("span must never drop below 1, got %d", got)
	}
}

func TestRebalance(t *testing.T) {
	a := New()
	container := &domain.Node{
		ID: "g", Type: "grid", Props: map[string]any{},
		Children: []*domain.Node{
			{ID: "x", Type: "button", Props: map[string]any{SpanProp: 12}},
			{ID: "y", Type: "button", Props: map[string]any{SpanProp: 6}},
		},
	}
	updates := a.Rebalance(container, 12)
	if len(updates) != 2 {
		t.Fatalf("expected both children rebalanced, got %d updates", len(updates))
	}
	for _, u := range updates {
		if u.Span != 6 {
			t.Errorf("update for %s = %d, want 6", u.NodeID, u.Span)
		}
	}
}

func TestRebalance_SkipsAlreadyBalanced(t *testing.T) {
	a := New()
	container := &domain.Node{
		ID: "g", Type: "grid", Props: map[string]any{},
		Children: []*domain.Node{
			{ID: "x", Type: "button", Props: map[string]any{SpanProp: 6}},
			{ID: "y", Type: "button", Props: map[string]any{SpanProp: 12}},
		},
	}
	updates := a.Rebalance(container, 12)
	if len(updates) != 1 || updates[0].NodeID != "y" {
		t.Fatalf("expected only y rebalanced, got %v", updates)
	}
}

func TestRebalance_EmptyContainer(t *testing.T) {
	a := New()
	if got := a.Rebalance(&domain.Node{ID: "g"}, 12); got != nil {
		t.Fatalf("expected nil for empty container, got %v", got)
	}
}
