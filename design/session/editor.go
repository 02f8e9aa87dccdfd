// Package session owns the live state of one product-customization editing
// session: a single mutable design, the active view, and the current
// selection. Every UI event maps to exactly one Editor method, applied
// synchronously in call order.
package session

import (
	"fmt"

	"printframe/core"
	"printframe/design"
)

// Editor is the exclusive owner of one design. It is not safe for concurrent
// use on its own; the Manager serializes access to each session.
type Editor struct {
	design     *design.Design
	activeView core.View
	selected   string // layer id, empty when nothing is selected

	productID    string
	productColor string
}

// NewEditor starts an empty session on the front view with no selection.
// The product context is carried through snapshots so checkout knows which
// garment and colorway the design was made for.
func NewEditor(productID, productColor string) *Editor {
	return &Editor{
		design:       design.New(),
		activeView:   core.ViewFront,
		productID:    productID,
		productColor: productColor,
	}
}

// ProductID returns the garment the session is customizing.
func (e *Editor) ProductID() string {
	return e.productID
}

// ActiveView returns the view currently being edited.
func (e *Editor) ActiveView() core.View {
	return e.activeView
}

// Selected returns the selected layer id, or "" when nothing is selected.
func (e *Editor) Selected() string {
	return e.selected
}

// SetActiveView switches the face of the garment being edited. Switching
// away from the selected layer's view clears the selection; switching to the
// already-active view changes nothing.
func (e *Editor) SetActiveView(view core.View) error {
	if _, err := core.ParseView(string(view)); err != nil {
		return err
	}
	if view == e.activeView {
		return nil
	}
	if e.selected != "" && !e.design.HasLayerInView(e.selected, view) {
		e.selected = ""
	}
	e.activeView = view
	return nil
}

// Select targets a layer for subsequent edits. The layer must belong to the
// active view; on failure the previous selection is kept.
func (e *Editor) Select(id string) error {
	if !e.design.HasLayerInView(id, e.activeView) {
		return fmt.Errorf("%w: %s (active view %s)", core.ErrLayerNotInActiveView, id, e.activeView)
	}
	e.selected = id
	return nil
}

// ClearSelection drops the selection. Always succeeds.
func (e *Editor) ClearSelection() {
	e.selected = ""
}

// AddLayer creates a layer of the given kind on the active view, stacked on
// top, and selects it. Returns a copy of the new layer.
func (e *Editor) AddLayer(kind core.LayerKind, params design.InitParams) (*core.Layer, error) {
	layer, err := design.NewLayer(kind, e.activeView, e.design.MaxZ(e.activeView), params)
	if err != nil {
		return nil, err
	}
	if err := e.design.AddLayer(layer); err != nil {
		return nil, err
	}
	e.selected = layer.ID
	return layer, nil
}

// UpdateLayer applies a partial patch to a layer anywhere in the design.
func (e *Editor) UpdateLayer(id string, patch core.LayerPatch) (*core.Layer, error) {
	if err := e.design.UpdateLayer(id, patch); err != nil {
		return nil, err
	}
	return e.design.LayerByID(id)
}

// DeleteLayer removes a layer regardless of lock state. Deleting the
// selected layer clears the selection.
func (e *Editor) DeleteLayer(id string) error {
	if err := e.design.DeleteLayer(id); err != nil {
		return err
	}
	if e.selected == id {
		e.selected = ""
	}
	return nil
}

// Reorder moves a layer through its view's paint order.
func (e *Editor) Reorder(id string, dir design.ReorderDirection) error {
	return e.design.Reorder(id, dir)
}

// SetZIndex assigns an explicit z-index to a layer.
func (e *Editor) SetZIndex(id string, z int) error {
	return e.design.SetZIndex(id, z)
}

// ListLayers returns the view's layers in ascending paint order. The
// returned layers are copies; mutating them cannot corrupt the session.
func (e *Editor) ListLayers(view core.View) []*core.Layer {
	return e.design.ListLayers(view)
}

// LayerByID returns a copy of a layer, looked up across all views.
func (e *Editor) LayerByID(id string) (*core.Layer, error) {
	return e.design.LayerByID(id)
}
