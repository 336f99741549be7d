// Package layout implements the smart span policy applied when nodes are
// inserted into grid-type containers.
package layout

import "blueprint/internal/domain"

// SpanProp is the node prop carrying a child's column span inside a grid.
const SpanProp = "colSpan"

// MinFraction caps how narrow the policy will make a child: never less
// than 1/MinFraction of the container's columns.
const MinFraction = 3

// Assistant computes proportional column spans for grid children. It never
// rejects an insertion; it only refines props and proposes sibling
// rebalances.
type Assistant struct {
	minFraction int
}

// New returns the default span assistant.
func New() *Assistant {
	return &Assistant{minFraction: MinFraction}
}

// SpanUpdate is a proposed prop update for one sibling.
type SpanUpdate struct {
	NodeID string
	Span   int
}

// SpanFor returns the column span for one of childCount children in a grid
// with totalCols columns: an even division, floored at 1/minFraction of the
// row so children stay usable as the row fills up (further children wrap).
func (a *Assistant) SpanFor(totalCols, childCount int) int {
	if totalCols <= 0 {
		totalCols = domain.DefaultGridColumns
	}
	if childCount < 1 {
		childCount = 1
	}
	span := totalCols / childCount
	if min := totalCols / a.minFraction; span < min {
		span = min
	}
	if span < 1 {
		span = 1
	}
	return span
}

// Rebalance proposes span updates for a grid container's children so that
// siblings share the row evenly. Only children whose current span differs
// from the target are included.
func (a *Assistant) Rebalance(container *domain.Node, totalCols int) []SpanUpdate {
	if container == nil || len(container.Children) == 0 {
		return nil
	}
	target := a.SpanFor(totalCols, len(container.Children))
	var updates []SpanUpdate
	for _, c := range container.Children {
		if c.PropInt(SpanProp, 0) != target {
			updates = append(updates, SpanUpdate{NodeID: c.ID, Span: target})
		}
	}
	return updates
}
