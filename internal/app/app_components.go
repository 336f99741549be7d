package app

import (
	"blueprint/internal/domain"
	"blueprint/internal/engine"
)

// ============================================================
// Global Components
// ============================================================

// MakeGlobalComponent captures a subtree as a reusable component; the
// original node becomes an instance of it.
func (a *App) MakeGlobalComponent(nodeID, name string) bool {
	return a.docs.Dispatch(engine.MakeGlobalComponent{NodeID: nodeID, Name: name})
}

func (a *App) InsertComponentInstance(componentID, parentID string, index int) bool {
	return a.docs.Dispatch(engine.InsertComponentInstance{
		ComponentID: componentID,
		ParentID:    parentID,
		Index:       index,
	})
}

func (a *App) UpdateGlobalComponent(componentID string, root *domain.Node) bool {
	return a.docs.Dispatch(engine.UpdateGlobalComponent{ComponentID: componentID, Root: root})
}

func (a *App) DeleteGlobalComponent(componentID string) bool {
	return a.docs.Dispatch(engine.DeleteGlobalComponent{ComponentID: componentID})
}

// DetachComponentInstance replaces an instance with an editable copy of
// its definition.
func (a *App) DetachComponentInstance(nodeID string) bool {
	return a.docs.Dispatch(engine.DetachComponentInstance{NodeID: nodeID})
}
