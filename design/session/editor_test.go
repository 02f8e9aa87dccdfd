package session

import (
	"errors"
	"testing"

	"printframe/core"
	"printframe/design"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return NewEditor("tee-classic", "#ffffff")
}

func addText(t *testing.T, e *Editor) *core.Layer {
	t.Helper()
	layer, err := e.AddLayer(core.KindText, design.InitParams{})
	if err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}
	return layer
}

func TestEditor_InitialState(t *testing.T) {
	e := newTestEditor(t)
	if e.ActiveView() != core.ViewFront {
		t.Errorf("initial active view = %s, want front", e.ActiveView())
	}
	if e.Selected() != "" {
		t.Errorf("initial selection = %q, want empty", e.Selected())
	}
}

func TestEditor_AddLayerSelectsAndStacks(t *testing.T) {
	e := newTestEditor(t)
	l1 := addText(t, e)
	if e.Selected() != l1.ID {
		t.Errorf("selection = %q, want newly added %q", e.Selected(), l1.ID)
	}

	l2 := addText(t, e)
	if l2.ZIndex != l1.ZIndex+1 {
		t.Errorf("second layer z = %d, want %d", l2.ZIndex, l1.ZIndex+1)
	}
	if l2.View != core.ViewFront {
		t.Errorf("layer created on %s, want active view front", l2.View)
	}
}

func TestEditor_SetActiveViewIdempotent(t *testing.T) {
	e := newTestEditor(t)
	layer := addText(t, e)

	if err := e.SetActiveView(core.ViewFront); err != nil {
		t.Fatalf("SetActiveView(front) error = %v", err)
	}
	after1View, after1Sel := e.ActiveView(), e.Selected()

	if err := e.SetActiveView(core.ViewFront); err != nil {
		t.Fatalf("second SetActiveView(front) error = %v", err)
	}
	if e.ActiveView() != after1View || e.Selected() != after1Sel {
		t.Errorf("repeated SetActiveView changed state: view=%s sel=%q", e.ActiveView(), e.Selected())
	}
	if e.Selected() != layer.ID {
		t.Errorf("selection lost on idempotent view switch")
	}
}

func TestEditor_SwitchViewClearsForeignSelection(t *testing.T) {
	e := newTestEditor(t)
	addText(t, e)

	if err := e.SetActiveView(core.ViewBack); err != nil {
		t.Fatalf("SetActiveView(back) error = %v", err)
	}
	if e.Selected() != "" {
		t.Errorf("selection = %q after switching away, want empty", e.Selected())
	}
	if e.ActiveView() != core.ViewBack {
		t.Errorf("active view = %s, want back", e.ActiveView())
	}
}

func TestEditor_SelectRequiresActiveView(t *testing.T) {
	e := newTestEditor(t)
	frontLayer := addText(t, e)

	if err := e.SetActiveView(core.ViewBack); err != nil {
		t.Fatal(err)
	}
	backLayer := addText(t, e)

	if err := e.SetActiveView(core.ViewFront); err != nil {
		t.Fatal(err)
	}
	if err := e.Select(frontLayer.ID); err != nil {
		t.Fatalf("Select(front layer) error = %v", err)
	}

	err := e.Select(backLayer.ID)
	if !errors.Is(err, core.ErrLayerNotInActiveView) {
		t.Errorf("Select(back layer from front) error = %v, want ErrLayerNotInActiveView", err)
	}
	if e.Selected() != frontLayer.ID {
		t.Errorf("failed select changed selection to %q", e.Selected())
	}
}

func TestEditor_SelectUnknownLayer(t *testing.T) {
	e := newTestEditor(t)
	if err := e.Select("nope"); !errors.Is(err, core.ErrLayerNotInActiveView) {
		t.Errorf("Select(unknown) error = %v, want ErrLayerNotInActiveView", err)
	}
}

func TestEditor_DeleteSelectedClearsSelection(t *testing.T) {
	e := newTestEditor(t)
	layer := addText(t, e)

	if err := e.DeleteLayer(layer.ID); err != nil {
		t.Fatalf("DeleteLayer() error = %v", err)
	}
	if e.Selected() != "" {
		t.Errorf("selection = %q after deleting selected layer, want empty", e.Selected())
	}
	if layers := e.ListLayers(core.ViewFront); len(layers) != 0 {
		t.Errorf("deleted layer still listed")
	}
}

func TestEditor_DeleteOtherKeepsSelection(t *testing.T) {
	e := newTestEditor(t)
	l1 := addText(t, e)
	l2 := addText(t, e)

	if err := e.Select(l1.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.DeleteLayer(l2.ID); err != nil {
		t.Fatal(err)
	}
	if e.Selected() != l1.ID {
		t.Errorf("selection = %q, want %q", e.Selected(), l1.ID)
	}
}

func TestEditor_ClearSelection(t *testing.T) {
	e := newTestEditor(t)
	addText(t, e)

	e.ClearSelection()
	if e.Selected() != "" {
		t.Errorf("selection = %q after clear, want empty", e.Selected())
	}
	// Clearing an empty selection is fine too.
	e.ClearSelection()
}
