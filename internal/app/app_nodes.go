package app

import (
	"fmt"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
)

// ============================================================
// Nodes
// ============================================================

// InsertNode builds a node of the given type and inserts it. An empty
// parentID targets the page root; index -1 appends. Extra props override
// the type defaults.
func (a *App) InsertNode(nodeType, name, parentID string, index int, props map[string]any) (*domain.Node, error) {
	if name == "" {
		name = nodeType
	}
	node := engine.NewNode(domain.NewBuiltinRegistry(), engine.UUIDGenerator, nodeType, name)
	for k, v := range props {
		node.Props[k] = v
	}
	if !a.docs.Dispatch(engine.InsertNode{Node: node, ParentID: parentID, Index: index}) {
		return nil, fmt.Errorf("insert rejected: parent %q", parentID)
	}
	return node, nil
}

// UpdateNodeProps merges props into one node.
func (a *App) UpdateNodeProps(nodeID string, props map[string]any) bool {
	return a.docs.Dispatch(engine.UpdateProps{NodeID: nodeID, Props: props})
}

// UpdateNodePropsMulti merges the same props into every listed node.
func (a *App) UpdateNodePropsMulti(nodeIDs []string, props map[string]any) bool {
	return a.docs.Dispatch(engine.UpdatePropsMulti{NodeIDs: nodeIDs, Props: props})
}

func (a *App) RenameNode(nodeID, name string) bool {
	return a.docs.Dispatch(engine.RenameNode{NodeID: nodeID, Name: name})
}

func (a *App) RemoveNode(nodeID string) bool {
	return a.docs.Dispatch(engine.RemoveNode{NodeID: nodeID})
}

func (a *App) DuplicateNode(nodeID string) bool {
	return a.docs.Dispatch(engine.DuplicateNode{NodeID: nodeID})
}

// MoveNode swaps a node with its previous ("up") or next ("down") sibling.
func (a *App) MoveNode(nodeID, direction string) bool {
	return a.docs.Dispatch(engine.MoveNode{NodeID: nodeID, Direction: direction})
}

// ReorderNode implements drag-and-drop: move activeID before/after/inside
// overID.
func (a *App) ReorderNode(activeID, overID, position string) bool {
	return a.docs.Dispatch(engine.ReorderNode{ActiveID: activeID, OverID: overID, Position: position})
}

// SetPageTree replaces a page's whole tree. An empty pageID targets the
// current page.
func (a *App) SetPageTree(pageID string, tree *domain.Node) bool {
	return a.docs.Dispatch(engine.SetPageTree{PageID: pageID, Tree: tree})
}

// ============================================================
// Interactions
// ============================================================

func (a *App) AddInteraction(nodeID, trigger, action, targetID, value string) bool {
	return a.docs.Dispatch(engine.AddInteraction{
		NodeID:   nodeID,
		Trigger:  trigger,
		Action:   action,
		TargetID: targetID,
		Value:    value,
	})
}

func (a *App) UpdateInteraction(nodeID string, interaction domain.Interaction) bool {
	return a.docs.Dispatch(engine.UpdateInteraction{NodeID: nodeID, Interaction: interaction})
}

func (a *App) RemoveInteraction(nodeID, interactionID string) bool {
	return a.docs.Dispatch(engine.RemoveInteraction{NodeID: nodeID, InteractionID: interactionID})
}

// ============================================================
// Selection / Clipboard
// ============================================================

func (a *App) SetSelection(nodeIDs []string) bool {
	return a.docs.Dispatch(engine.SetSelection{NodeIDs: nodeIDs})
}

// ToggleSelection single-selects by default; multi adds/removes the node,
// rangeSelect extends from the last selected node.
func (a *App) ToggleSelection(nodeID string, multi, rangeSelect bool) bool {
	return a.docs.Dispatch(engine.ToggleSelection{NodeID: nodeID, Multi: multi, Range: rangeSelect})
}

func (a *App) CopyNode(nodeID string) bool {
	return a.docs.Dispatch(engine.CopyNode{NodeID: nodeID})
}

func (a *App) CutNode(nodeID string) bool {
	return a.docs.Dispatch(engine.CutNode{NodeID: nodeID})
}

// PasteNode inserts the clipboard content under parentID (empty: page
// root).
func (a *App) PasteNode(parentID string) bool {
	return a.docs.Dispatch(engine.PasteNode{ParentID: parentID})
}
