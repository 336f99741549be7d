package engine

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"blueprint/internal/domain"
	"blueprint/internal/tree"
)

func seqGen() domain.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

// testEngine returns an engine over a minimal workspace: one project with
// one page whose root grid is empty.
func testEngine() (*Engine, domain.IDGenerator) {
	gen := seqGen()
	e := New(domain.NewBuiltinRegistry(), gen)
	p := domain.NewProject(gen, "Test")
	e.Restore(domain.Snapshot{Projects: []domain.Project{p}, CurrentProjectID: p.ID})
	return e, gen
}

func currentTree(e *Engine) *domain.Node {
	s := e.State()
	p := s.CurrentProject()
	return p.Page(p.CurrentPageID).Tree
}

func rootChildIDs(e *Engine) []string {
	root := currentTree(e)
	ids := make([]string, len(root.Children))
	for i, c := range root.Children {
		ids[i] = c.ID
	}
	return ids
}

func insertButton(e *Engine, gen domain.IDGenerator, name string, index int) string {
	n := NewNode(domain.NewBuiltinRegistry(), gen, "button", name)
	e.Apply(InsertNode{Node: n, Index: index})
	return n.ID
}

// ── scenario from the design brief: insert, insert-at-0, move, 3×undo,
// 3×redo ────────────────────────────────────────────────────

func TestScenario_InsertMoveUndoRedo(t *testing.T) {
	e, gen := testEngine()

	b1 := insertButton(e, gen, "B1", -1)
	if got := rootChildIDs(e); len(got) != 1 || got[0] != b1 {
		t.Fatalf("after insert B1: %v", got)
	}

	b2 := insertButton(e, gen, "B2", 0)
	if got := rootChildIDs(e); len(got) != 2 || got[0] != b2 || got[1] != b1 {
		t.Fatalf("after insert B2 at 0: %v", got)
	}

	if !e.Apply(MoveNode{NodeID: b1, Direction: "up"}) {
		t.Fatal("move up should change state")
	}
	if got := rootChildIDs(e); got[0] != b1 || got[1] != b2 {
		t.Fatalf("after move: %v", got)
	}

	e.Apply(Undo{})
	if got := rootChildIDs(e); got[0] != b2 || got[1] != b1 {
		t.Fatalf("after undo 1: %v", got)
	}
	e.Apply(Undo{})
	if got := rootChildIDs(e); len(got) != 1 || got[0] != b1 {
		t.Fatalf("after undo 2: %v", got)
	}
	e.Apply(Undo{})
	if got := rootChildIDs(e); len(got) != 0 {
		t.Fatalf("after undo 3: %v", got)
	}

	e.Apply(Redo{})
	e.Apply(Redo{})
	e.Apply(Redo{})
	if got := rootChildIDs(e); got[0] != b1 || got[1] != b2 {
		t.Fatalf("after redo x3: %v", got)
	}
}

// ── history laws ───────────────────────────────────────────

func TestUndo_IsInverseOfContentCommand(t *testing.T) {
	e, gen := testEngine()
	insertButton(e, gen, "A", -1)

	before := e.Snapshot()
	insertButton(e, gen, "B", -1)
	e.Apply(Undo{})

	if diff := cmp.Diff(before, e.Snapshot()); diff != "" {
		t.Fatalf("undo did not restore the prior snapshot:\n%s", diff)
	}
	if _, future := e.HistoryDepths(); future != 1 {
		t.Fatalf("future depth = %d, want 1", future)
	}
}

func TestUndoRedo_NoopOnEmptyStacks(t *testing.T) {
	e, _ := testEngine()
	before := e.Snapshot()

	if e.Apply(Undo{}) {
		t.Fatal("undo with empty past must be a no-op")
	}
	if e.Apply(Redo{}) {
		t.Fatal("redo with empty future must be a no-op")
	}
	if diff := cmp.Diff(before, e.Snapshot()); diff != "" {
		t.Fatalf("state changed:\n%s", diff)
	}
}

func TestHistory_BoundedAtMaxDepth(t *testing.T) {
	e, gen := testEngine()
	for i := 0; i < MaxHistoryDepth+10; i++ {
		insertButton(e, gen, fmt.Sprintf("N%d", i), -1)
	}
	past, _ := e.HistoryDepths()
	if past != MaxHistoryDepth {
		t.Fatalf("past depth = %d, want %d", past, MaxHistoryDepth)
	}
}

func TestClearHistory_KeepsPresent(t *testing.T) {
	e, gen := testEngine()
	b := insertButton(e, gen, "A", -1)
	e.Apply(ClearHistory{})

	past, future := e.HistoryDepths()
	if past != 0 || future != 0 {
		t.Fatalf("stacks = (%d, %d), want empty", past, future)
	}
	if tree.Find(currentTree(e), b) == nil {
		t.Fatal("present must be untouched")
	}
	if e.Apply(Undo{}) {
		t.Fatal("undo after clear must be a no-op")
	}
}

func TestMutatingCommandClearsFuture(t *testing.T) {
	e, gen := testEngine()
	insertButton(e, gen, "A", -1)
	insertButton(e, gen, "B", -1)
	e.Apply(Undo{})
	if _, future := e.HistoryDepths(); future != 1 {
		t.Fatal("expected one redo entry")
	}
	insertButton(e, gen, "C", -1)
	if _, future := e.HistoryDepths(); future != 0 {
		t.Fatal("a new edit must clear the future stack")
	}
}

// ── dirty classification ───────────────────────────────────

func TestDirty_ContentCommandsOnly(t *testing.T) {
	e, gen := testEngine()
	if e.Dirty() {
		t.Fatal("fresh engine must be clean")
	}

	b := insertButton(e, gen, "A", -1)
	if !e.Dirty() {
		t.Fatal("insert must dirty the document")
	}

	e.Apply(MarkSaved{})
	if e.Dirty() {
		t.Fatal("mark-saved must clear dirty")
	}

	// Selection, navigation and view toggles never dirty.
	e.Apply(SetSelection{NodeIDs: []string{b}})
	e.Apply(ToggleSelection{NodeID: b, Multi: true})
	e.Apply(ToggleGridLines{})
	e.Apply(TogglePlayMode{})
	e.Apply(ToggleColumnLines{})
	if e.Dirty() {
		t.Fatal("session commands must not dirty the document")
	}

	e.Apply(RenameNode{NodeID: b, Name: "Primary"})
	if !e.Dirty() {
		t.Fatal("rename must dirty the document")
	}
}

func TestDirty_NavigationDoesNotDirty(t *testing.T) {
	e, _ := testEngine()
	e.Apply(AddPage{Name: "Second"})
	e.Apply(MarkSaved{})

	s := e.State()
	first := s.CurrentProject().Pages[0].ID
	if !e.Apply(SetCurrentPage{PageID: first}) {
		t.Fatal("navigation should change state")
	}
	if e.Dirty() {
		t.Fatal("page navigation must not dirty the document")
	}
}

// ── root protection ────────────────────────────────────────

func TestRootProtection(t *testing.T) {
	e, gen := testEngine()
	insertButton(e, gen, "A", -1)

	if e.Apply(RemoveNode{NodeID: domain.RootNodeID}) {
		t.Fatal("removing the root must be rejected")
	}
	if e.Apply(CutNode{NodeID: domain.RootNodeID}) {
		t.Fatal("cutting the root must be rejected")
	}
	if currentTree(e).ID != domain.RootNodeID {
		t.Fatal("root id must survive")
	}
}

func TestSetPageTree_WrapsForeignRoot(t *testing.T) {
	e, _ := testEngine()
	foreign := &domain.Node{ID: "x", Type: "container", Props: map[string]any{}}
	if !e.Apply(SetPageTree{Tree: foreign}) {
		t.Fatal("set tree should apply")
	}
	root := currentTree(e)
	if root.ID != domain.RootNodeID {
		t.Fatal("page tree must stay rooted at the protected root")
	}
	if len(root.Children) != 1 || root.Children[0].ID != "x" {
		t.Fatal("foreign tree must be wrapped under the root")
	}
}

// ── no-op detection ────────────────────────────────────────

func TestUnknownTargetsAreNoops(t *testing.T) {
	e, gen := testEngine()
	insertButton(e, gen, "A", -1)
	before := e.Snapshot()

	noops := []Command{
		UpdateProps{NodeID: "missing", Props: map[string]any{"x": 1}},
		RenameNode{NodeID: "missing", Name: "X"},
		RemoveNode{NodeID: "missing"},
		DuplicateNode{NodeID: "missing"},
		MoveNode{NodeID: "missing", Direction: "up"},
		DeletePage{PageID: "missing"},
		RenamePage{PageID: "missing", Name: "X"},
		DeleteProject{ProjectID: "missing"},
		SetCurrentPage{PageID: "missing"},
		SetCurrentProject{ProjectID: "missing"},
		PasteNode{}, // empty clipboard
	}
	for _, cmd := range noops {
		if e.Apply(cmd) {
			t.Errorf("%T should be a no-op", cmd)
		}
	}
	if diff := cmp.Diff(before, e.Snapshot()); diff != "" {
		t.Fatalf("no-op commands changed the snapshot:\n%s", diff)
	}
	if past, _ := e.HistoryDepths(); past != 1 {
		t.Fatalf("no-ops must not grow history, past = %d", past)
	}
}

// ── insertion: smart span + selection heuristic ────────────

func TestInsert_GridSpanPolicy(t *testing.T) {
	e, gen := testEngine()

	b1 := insertButton(e, gen, "B1", -1)
	if got := tree.Find(currentTree(e), b1).PropInt("colSpan", 0); got != 12 {
		t.Fatalf("single child span = %d, want 12", got)
	}

	b2 := insertButton(e, gen, "B2", -1)
	root := currentTree(e)
	if got := tree.Find(root, b2).PropInt("colSpan", 0); got != 6 {
		t.Fatalf("second child span = %d, want 6", got)
	}
	if got := tree.Find(root, b1).PropInt("colSpan", 0); got != 6 {
		t.Fatalf("sibling must be rebalanced to 6, got %d", got)
	}

	insertButton(e, gen, "B3", -1)
	insertButton(e, gen, "B4", -1)
	root = currentTree(e)
	for _, c := range root.Children {
		if got := c.PropInt("colSpan", 0); got != 4 {
			t.Fatalf("span floors at a third of the row, got %d for %s", got, c.ID)
		}
	}
}

func TestInsert_SelectionHeuristic(t *testing.T) {
	e, gen := testEngine()
	reg := domain.NewBuiltinRegistry()

	// Inserting into a structural container keeps the container selected.
	container := NewNode(reg, gen, "container", "Box")
	e.Apply(InsertNode{Node: container, Index: -1})
	btn := NewNode(reg, gen, "button", "B")
	e.Apply(InsertNode{Node: btn, ParentID: container.ID, Index: -1})
	if sel := e.State().SelectedNodeIDs; len(sel) != 1 || sel[0] != container.ID {
		t.Fatalf("selection = %v, want container kept", sel)
	}

	// Inserting under a leaf parent selects the new node.
	label := NewNode(reg, gen, "text", "L")
	e.Apply(InsertNode{Node: label, ParentID: btn.ID, Index: -1})
	if sel := e.State().SelectedNodeIDs; len(sel) != 1 || sel[0] != label.ID {
		t.Fatalf("selection = %v, want new node", sel)
	}
}

// ── selection semantics ────────────────────────────────────

func TestToggleSelection(t *testing.T) {
	e, gen := testEngine()
	a := insertButton(e, gen, "A", -1)
	b := insertButton(e, gen, "B", -1)

	e.Apply(ToggleSelection{NodeID: a})
	if sel := e.State().SelectedNodeIDs; len(sel) != 1 || sel[0] != a {
		t.Fatalf("single select = %v", sel)
	}

	e.Apply(ToggleSelection{NodeID: b, Multi: true})
	if sel := e.State().SelectedNodeIDs; len(sel) != 2 {
		t.Fatalf("multi select = %v", sel)
	}

	e.Apply(ToggleSelection{NodeID: a, Multi: true})
	if sel := e.State().SelectedNodeIDs; len(sel) != 1 || sel[0] != b {
		t.Fatalf("multi deselect = %v", sel)
	}
}

func TestToggleSelection_Range(t *testing.T) {
	e, gen := testEngine()
	a := insertButton(e, gen, "A", -1)
	insertButton(e, gen, "B", -1)
	c := insertButton(e, gen, "C", -1)

	e.Apply(SetSelection{NodeIDs: []string{a}})
	e.Apply(ToggleSelection{NodeID: c, Range: true})
	sel := e.State().SelectedNodeIDs
	if len(sel) != 3 {
		t.Fatalf("range select = %v, want A..C inclusive", sel)
	}
}

// ── clipboard ──────────────────────────────────────────────

func TestCutPaste_AcrossContainers(t *testing.T) {
	e, gen := testEngine()
	reg := domain.NewBuiltinRegistry()

	boxA := NewNode(reg, gen, "container", "A")
	boxB := NewNode(reg, gen, "container", "B")
	e.Apply(InsertNode{Node: boxA, Index: -1})
	e.Apply(InsertNode{Node: boxB, Index: -1})
	n := NewNode(reg, gen, "button", "N")
	e.Apply(InsertNode{Node: n, ParentID: boxA.ID, Index: -1})

	if !e.Apply(CutNode{NodeID: n.ID}) {
		t.Fatal("cut should apply")
	}
	if e.State().CutNodeID != n.ID {
		t.Fatal("cut marker must record the source")
	}
	if tree.Find(currentTree(e), n.ID) != nil {
		t.Fatal("cut node must leave the tree")
	}

	if !e.Apply(PasteNode{ParentID: boxB.ID}) {
		t.Fatal("paste should apply")
	}
	s := e.State()
	if s.CutNodeID != "" {
		t.Fatal("paste must clear the cut marker")
	}
	bAfter := tree.Find(currentTree(e), boxB.ID)
	if len(bAfter.Children) != 1 {
		t.Fatal("pasted node must appear under B")
	}
	if bAfter.Children[0].ID == n.ID {
		t.Fatal("pasted node must get a fresh id")
	}
	if got := tree.Find(currentTree(e), boxA.ID); len(got.Children) != 0 {
		t.Fatal("source container must stay empty")
	}
}

func TestCutPaste_MissingParentClearsMarkerWithoutHistory(t *testing.T) {
	e, gen := testEngine()
	a := insertButton(e, gen, "A", -1)

	if !e.Apply(CutNode{NodeID: a}) {
		t.Fatal("cut should apply")
	}
	e.Apply(MarkSaved{})
	past, _ := e.HistoryDepths()
	before := currentTree(e)

	// The cut marker is one-shot: pasting into an unknown parent consumes
	// it, but the document itself is untouched.
	if !e.Apply(PasteNode{ParentID: "missing"}) {
		t.Fatal("a pending cut still clears its marker")
	}
	if e.State().CutNodeID != "" {
		t.Fatal("cut marker must be cleared")
	}
	if currentTree(e) != before {
		t.Fatal("tree must be untouched by a paste that lands nowhere")
	}
	if e.Dirty() {
		t.Fatal("a paste that lands nowhere must not mark the document dirty")
	}
	if got, _ := e.HistoryDepths(); got != past {
		t.Fatalf("history depth = %d after failed paste, want %d", got, past)
	}
}

func TestCopyPaste_KeepsOriginal(t *testing.T) {
	e, gen := testEngine()
	a := insertButton(e, gen, "A", -1)

	e.Apply(CopyNode{NodeID: a})
	if e.State().Clipboard == nil {
		t.Fatal("copy must fill the clipboard")
	}
	e.Apply(PasteNode{})
	root := currentTree(e)
	if len(root.Children) != 2 {
		t.Fatalf("expected original + paste, got %d children", len(root.Children))
	}
	if tree.Find(root, a) == nil {
		t.Fatal("copy must keep the original")
	}
}

// ── pages / projects guards ────────────────────────────────

func TestDeletePage_LastPageRejected(t *testing.T) {
	e, _ := testEngine()
	s := e.State()
	only := s.CurrentProject().Pages[0].ID
	if e.Apply(DeletePage{PageID: only}) {
		t.Fatal("deleting the only page must be rejected")
	}
}

func TestDeletePage_ShiftsCurrent(t *testing.T) {
	e, _ := testEngine()
	first := e.State().CurrentProject().Pages[0].ID
	e.Apply(AddPage{Name: "Second"})
	second := e.State().CurrentProject().CurrentPageID

	if !e.Apply(DeletePage{PageID: second}) {
		t.Fatal("delete should apply")
	}
	if got := e.State().CurrentProject().CurrentPageID; got != first {
		t.Fatalf("current page = %s, want %s", got, first)
	}
}

func TestDuplicatePage(t *testing.T) {
	e, gen := testEngine()
	b := insertButton(e, gen, "A", -1)
	src := e.State().CurrentProject().Pages[0]

	if !e.Apply(DuplicatePage{PageID: src.ID}) {
		t.Fatal("duplicate should apply")
	}
	p := e.State().CurrentProject()
	if len(p.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(p.Pages))
	}
	dup := p.Pages[1]
	if dup.Tree.ID != domain.RootNodeID {
		t.Fatal("duplicated page keeps the protected root id")
	}
	if len(dup.Tree.Children) != 1 || dup.Tree.Children[0].ID == b {
		t.Fatal("duplicated children must get fresh ids")
	}
}

func TestDeleteProject_Guards(t *testing.T) {
	gen := seqGen()
	e := New(domain.NewBuiltinRegistry(), gen)

	// The default workspace has a single protected example project.
	only := e.State().Projects[0].ID
	if e.Apply(DeleteProject{ProjectID: only}) {
		t.Fatal("deleting the last project must be rejected")
	}

	e.Apply(CreateProject{Name: "Second"})
	if e.Apply(DeleteProject{ProjectID: only}) {
		t.Fatal("deleting a protected project must be rejected")
	}
	if e.Apply(RenameProject{ProjectID: only, Name: "X"}) {
		t.Fatal("renaming a protected project must be rejected")
	}

	second := e.State().CurrentProjectID
	if !e.Apply(DeleteProject{ProjectID: second}) {
		t.Fatal("deleting an ordinary project should apply")
	}
	if got := e.State().CurrentProjectID; got != only {
		t.Fatalf("current project = %s, want %s", got, only)
	}
}

// ── global components ──────────────────────────────────────

func TestGlobalComponent_MakeInsertDetach(t *testing.T) {
	e, gen := testEngine()
	reg := domain.NewBuiltinRegistry()

	card := NewNode(reg, gen, "container", "Card")
	e.Apply(InsertNode{Node: card, Index: -1})
	e.Apply(InsertNode{Node: NewNode(reg, gen, "text", "Title"), ParentID: card.ID, Index: -1})

	if !e.Apply(MakeGlobalComponent{NodeID: card.ID, Name: "Card"}) {
		t.Fatal("make component should apply")
	}
	p := e.State().CurrentProject()
	if len(p.GlobalComponents) != 1 {
		t.Fatal("component definition missing")
	}
	comp := p.GlobalComponents[0]

	// Original node is now an instance.
	root := currentTree(e)
	if tree.Find(root, card.ID) != nil {
		t.Fatal("original subtree must be replaced by an instance")
	}
	instance := root.Children[0]
	if instance.Type != domain.TypeComponent || instance.PropString("componentId") != comp.ID {
		t.Fatalf("instance node malformed: %+v", instance)
	}

	// Insert a second instance, then detach it back into a plain subtree.
	if !e.Apply(InsertComponentInstance{ComponentID: comp.ID, Index: -1}) {
		t.Fatal("insert instance should apply")
	}
	second := currentTree(e).Children[1]
	if !e.Apply(DetachComponentInstance{NodeID: second.ID}) {
		t.Fatal("detach should apply")
	}
	detached := currentTree(e).Children[1]
	if detached.Type != "container" || len(detached.Children) != 1 {
		t.Fatalf("detached subtree malformed: %+v", detached)
	}
}

func TestEditingMode_AddressesComponentTree(t *testing.T) {
	e, gen := testEngine()
	reg := domain.NewBuiltinRegistry()

	card := NewNode(reg, gen, "container", "Card")
	e.Apply(InsertNode{Node: card, Index: -1})
	e.Apply(MakeGlobalComponent{NodeID: card.ID, Name: "Card"})
	comp := e.State().CurrentProject().GlobalComponents[0]

	if !e.Apply(SetEditingMode{ComponentID: comp.ID}) {
		t.Fatal("entering isolation mode should apply")
	}
	// Node edits now land in the component definition, not the page.
	label := NewNode(reg, gen, "text", "Label")
	if !e.Apply(InsertNode{Node: label, ParentID: comp.Root.ID, Index: -1}) {
		t.Fatal("insert into component should apply")
	}
	def := e.State().CurrentProject().GlobalComponents[0].Root
	if tree.Find(def, label.ID) == nil {
		t.Fatal("edit must land in the component definition")
	}
	pageRoot := e.State().CurrentProject().Pages[0].Tree
	if tree.Find(pageRoot, label.ID) != nil {
		t.Fatal("page tree must be untouched in isolation mode")
	}

	e.Apply(SetEditingMode{ComponentID: ""})
	if e.State().EditingComponentID != "" {
		t.Fatal("exit isolation mode")
	}
}

// ── reset ──────────────────────────────────────────────────

func TestResetToDefault(t *testing.T) {
	e, gen := testEngine()
	insertButton(e, gen, "A", -1)
	e.Apply(ResetToDefault{})

	s := e.State()
	if len(s.Projects) != 1 || !s.Projects[0].IsExampleProject {
		t.Fatal("reset must seed the example project")
	}
	if past, future := e.HistoryDepths(); past != 0 || future != 0 {
		t.Fatal("reset must clear history")
	}
	if !e.Dirty() {
		t.Fatal("reset is a content change")
	}
}

// ── interactions ───────────────────────────────────────────

func TestInteractions_AddUpdateRemove(t *testing.T) {
	e, gen := testEngine()
	b := insertButton(e, gen, "A", -1)

	if !e.Apply(AddInteraction{NodeID: b, Trigger: "click", Action: "navigate", TargetID: "page-2"}) {
		t.Fatal("add interaction should apply")
	}
	node := tree.Find(currentTree(e), b)
	if len(node.Interactions) != 1 {
		t.Fatal("interaction missing")
	}
	ix := node.Interactions[0]

	ix.Action = "open-url"
	ix.Value = "https://example.com"
	if !e.Apply(UpdateInteraction{NodeID: b, Interaction: ix}) {
		t.Fatal("update interaction should apply")
	}
	node = tree.Find(currentTree(e), b)
	if node.Interactions[0].Action != "open-url" {
		t.Fatal("interaction not updated")
	}

	if !e.Apply(RemoveInteraction{NodeID: b, InteractionID: ix.ID}) {
		t.Fatal("remove interaction should apply")
	}
	if n := tree.Find(currentTree(e), b); len(n.Interactions) != 0 {
		t.Fatal("interaction not removed")
	}

	if e.Apply(RemoveInteraction{NodeID: b, InteractionID: "missing"}) {
		t.Fatal("removing an unknown interaction must be a no-op")
	}
}

// ── multi prop update ──────────────────────────────────────

func TestUpdatePropsMulti(t *testing.T) {
	e, gen := testEngine()
	a := insertButton(e, gen, "A", -1)
	b := insertButton(e, gen, "B", -1)

	if !e.Apply(UpdatePropsMulti{NodeIDs: []string{a, b}, Props: map[string]any{"variant": "ghost"}}) {
		t.Fatal("multi update should apply")
	}
	root := currentTree(e)
	for _, id := range []string{a, b} {
		if got := tree.Find(root, id).PropString("variant"); got != "ghost" {
			t.Fatalf("node %s variant = %q", id, got)
		}
	}
	// All-unknown targets: no-op.
	if e.Apply(UpdatePropsMulti{NodeIDs: []string{"x", "y"}, Props: map[string]any{"k": 1}}) {
		t.Fatal("multi update with unknown ids must be a no-op")
	}
}
