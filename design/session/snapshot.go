package session

import (
	"encoding/json"
	"fmt"

	"printframe/core"
)

// Snapshot is the transport representation of a session's design: every
// view's layers in paint order plus the product context the design was made
// for. Encoding then restoring a snapshot reproduces every layer attribute
// and the paint order of every view.
//
// Selection is deliberately not part of the snapshot: it is transient UI
// state, and a restored session always starts with nothing selected.
type Snapshot struct {
	ProductID  string                      `json:"productId,omitempty"`
	ProductHex string                      `json:"productColor,omitempty"`
	ActiveView core.View                   `json:"activeView"`
	Views      map[core.View][]*core.Layer `json:"views"`
}

// Snapshot captures the session's current design.
func (e *Editor) Snapshot() *Snapshot {
	views := make(map[core.View][]*core.Layer, len(core.Views))
	for _, v := range core.Views {
		views[v] = e.design.ListLayers(v)
	}
	return &Snapshot{
		ProductID:  e.productID,
		ProductHex: e.productColor,
		ActiveView: e.activeView,
		Views:      views,
	}
}

// Restore replaces the session's design with the snapshot's contents.
// Layers are inserted in listed order, so z-index ties keep the snapshot's
// paint order. The selection is cleared. On any invalid layer, or a view key
// outside the product's views, the session is left unchanged.
func (e *Editor) Restore(snap *Snapshot) error {
	for v := range snap.Views {
		if _, err := core.ParseView(string(v)); err != nil {
			return fmt.Errorf("%w: snapshot files layers under unknown view %q",
				core.ErrInvalidLayerParams, v)
		}
	}

	next := NewEditor(snap.ProductID, snap.ProductHex)
	for _, v := range core.Views {
		for _, layer := range snap.Views[v] {
			if layer.View != v {
				return fmt.Errorf("%w: layer %s listed under view %s but belongs to %s",
					core.ErrInvalidLayerParams, layer.ID, v, layer.View)
			}
			if err := next.design.AddLayer(layer); err != nil {
				return err
			}
		}
	}
	if snap.ActiveView != "" {
		if err := next.SetActiveView(snap.ActiveView); err != nil {
			return err
		}
	}

	e.design = next.design
	e.activeView = next.activeView
	e.selected = ""
	e.productID = next.productID
	e.productColor = next.productColor
	return nil
}

// EncodeSnapshot serializes a snapshot for the persistence collaborator.
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot parses bytes previously produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode design snapshot: %w", err)
	}
	return &snap, nil
}
