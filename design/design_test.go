package design

import (
	"errors"
	"testing"

	"printframe/core"
)

func addTextLayer(t *testing.T, d *Design, view core.View) *core.Layer {
	t.Helper()
	layer, err := NewLayer(core.KindText, view, d.MaxZ(view), InitParams{})
	if err != nil {
		t.Fatalf("NewLayer() error = %v", err)
	}
	if err := d.AddLayer(layer); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}
	return layer
}

func TestAddLayer_ListReturnsExactlyViewLayers(t *testing.T) {
	d := New()
	front1 := addTextLayer(t, d, core.ViewFront)
	front2 := addTextLayer(t, d, core.ViewFront)
	back1 := addTextLayer(t, d, core.ViewBack)

	front := d.ListLayers(core.ViewFront)
	if len(front) != 2 {
		t.Fatalf("ListLayers(front) returned %d layers, want 2", len(front))
	}
	if front[0].ID != front1.ID || front[1].ID != front2.ID {
		t.Errorf("ListLayers(front) = [%s, %s], want [%s, %s]", front[0].ID, front[1].ID, front1.ID, front2.ID)
	}

	back := d.ListLayers(core.ViewBack)
	if len(back) != 1 || back[0].ID != back1.ID {
		t.Errorf("ListLayers(back) does not contain exactly the back layer")
	}

	if got := d.ListLayers(core.ViewLeft); len(got) != 0 {
		t.Errorf("ListLayers(left) returned %d layers, want 0", len(got))
	}
}

func TestAddLayer_DuplicateID(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	dup := layer.Clone()
	dup.View = core.ViewBack // duplicate even across views
	if err := d.AddLayer(dup); !errors.Is(err, core.ErrDuplicateLayerID) {
		t.Errorf("AddLayer(duplicate id) error = %v, want ErrDuplicateLayerID", err)
	}
}

func TestUpdateLayer_PatchIsolation(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	size := 48.0
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{Text: &core.TextPatch{FontSize: &size}}); err != nil {
		t.Fatalf("UpdateLayer() error = %v", err)
	}

	got, err := d.LayerByID(layer.ID)
	if err != nil {
		t.Fatalf("LayerByID() error = %v", err)
	}
	if got.Text.FontSize != 48 {
		t.Errorf("fontSize = %g, want 48", got.Text.FontSize)
	}

	// Every other field is untouched.
	if got.X != layer.X || got.Y != layer.Y || got.Width != layer.Width ||
		got.Text.Content != layer.Text.Content || got.Text.FontFamily != layer.Text.FontFamily {
		t.Errorf("patch touched fields beyond fontSize: got %+v", got)
	}
}

func TestUpdateLayer_VariantForeignField(t *testing.T) {
	d := New()
	layer, err := NewLayer(core.KindImage, core.ViewFront, 0, InitParams{Src: "mem://assets/a/1"})
	if err != nil {
		t.Fatalf("NewLayer() error = %v", err)
	}
	if err := d.AddLayer(layer); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	size := 20.0
	err = d.UpdateLayer(layer.ID, core.LayerPatch{Text: &core.TextPatch{FontSize: &size}})
	if !errors.Is(err, core.ErrInvalidFieldForVariant) {
		t.Errorf("UpdateLayer(fontSize on image) error = %v, want ErrInvalidFieldForVariant", err)
	}
}

func TestUpdateLayer_NotFound(t *testing.T) {
	d := New()
	x := 1.0
	if err := d.UpdateLayer("missing", core.LayerPatch{X: &x}); !errors.Is(err, core.ErrLayerNotFound) {
		t.Errorf("UpdateLayer(missing) error = %v, want ErrLayerNotFound", err)
	}
}

func TestUpdateLayer_LockedBlocksGeometryAndContent(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	locked := true
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{Locked: &locked}); err != nil {
		t.Fatalf("locking failed: %v", err)
	}

	x := 10.0
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{X: &x}); !errors.Is(err, core.ErrLayerLocked) {
		t.Errorf("patch x on locked layer error = %v, want ErrLayerLocked", err)
	}

	content := "new copy"
	err := d.UpdateLayer(layer.ID, core.LayerPatch{Text: &core.TextPatch{Content: &content}})
	if !errors.Is(err, core.ErrLayerLocked) {
		t.Errorf("patch text on locked layer error = %v, want ErrLayerLocked", err)
	}

	// Visibility and lock toggles still go through.
	hidden := false
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{Visible: &hidden}); err != nil {
		t.Errorf("patch visible on locked layer error = %v, want nil", err)
	}
	unlocked := false
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{Locked: &unlocked}); err != nil {
		t.Errorf("patch locked on locked layer error = %v, want nil", err)
	}

	// Unlocked again, geometry moves.
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{X: &x}); err != nil {
		t.Errorf("patch x after unlock error = %v, want nil", err)
	}
}

func TestUpdateLayer_RejectsInvalidValues(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	tests := []struct {
		name  string
		patch core.LayerPatch
	}{
		{"zero width", func() core.LayerPatch { w := 0.0; return core.LayerPatch{Width: &w} }()},
		{"negative height", func() core.LayerPatch { h := -5.0; return core.LayerPatch{Height: &h} }()},
		{"opacity above one", func() core.LayerPatch { o := 1.5; return core.LayerPatch{Opacity: &o} }()},
		{"zero font size", func() core.LayerPatch { s := 0.0; return core.LayerPatch{Text: &core.TextPatch{FontSize: &s}} }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.UpdateLayer(layer.ID, tt.patch); !errors.Is(err, core.ErrInvalidLayerParams) {
				t.Errorf("UpdateLayer() error = %v, want ErrInvalidLayerParams", err)
			}
			// Nothing was committed.
			got, _ := d.LayerByID(layer.ID)
			if got.Width != layer.Width || got.Height != layer.Height ||
				got.Opacity != layer.Opacity || got.Text.FontSize != layer.Text.FontSize {
				t.Errorf("failed patch mutated the layer: %+v", got)
			}
		})
	}
}

func TestUpdateLayer_RejectsUnknownTextStyle(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	bogus := core.TextStyle("glow")
	err := d.UpdateLayer(layer.ID, core.LayerPatch{Text: &core.TextPatch{Style: &bogus}})
	if !errors.Is(err, core.ErrUnknownTextStyle) {
		t.Errorf("UpdateLayer(textStyle=glow) error = %v, want ErrUnknownTextStyle", err)
	}
}

func TestDeleteLayer(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	// Lock state does not protect against deletion.
	locked := true
	if err := d.UpdateLayer(layer.ID, core.LayerPatch{Locked: &locked}); err != nil {
		t.Fatalf("locking failed: %v", err)
	}

	if err := d.DeleteLayer(layer.ID); err != nil {
		t.Fatalf("DeleteLayer() error = %v", err)
	}
	if got := d.ListLayers(core.ViewFront); len(got) != 0 {
		t.Errorf("layer still listed after delete")
	}
	if err := d.DeleteLayer(layer.ID); !errors.Is(err, core.ErrLayerNotFound) {
		t.Errorf("second DeleteLayer() error = %v, want ErrLayerNotFound", err)
	}
}

func TestSetZIndex_ReordersPaint(t *testing.T) {
	d := New()
	l1 := addTextLayer(t, d, core.ViewFront) // z=1
	l2 := addTextLayer(t, d, core.ViewFront) // z=2
	l3 := addTextLayer(t, d, core.ViewFront) // z=3

	if err := d.SetZIndex(l1.ID, 5); err != nil {
		t.Fatalf("SetZIndex() error = %v", err)
	}

	got := d.ListLayers(core.ViewFront)
	wantOrder := []string{l2.ID, l3.ID, l1.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("paint order[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestSetZIndex_TieBrokenByCreationOrder(t *testing.T) {
	d := New()
	l1 := addTextLayer(t, d, core.ViewFront)
	l2 := addTextLayer(t, d, core.ViewFront)

	// Give both the same z; the earlier-created layer paints first.
	if err := d.SetZIndex(l2.ID, l1.ZIndex); err != nil {
		t.Fatalf("SetZIndex() error = %v", err)
	}

	got := d.ListLayers(core.ViewFront)
	if got[0].ID != l1.ID || got[1].ID != l2.ID {
		t.Errorf("tie not broken by creation order: [%s, %s]", got[0].ID, got[1].ID)
	}
}

func TestReorder(t *testing.T) {
	d := New()
	l1 := addTextLayer(t, d, core.ViewFront)
	l2 := addTextLayer(t, d, core.ViewFront)
	l3 := addTextLayer(t, d, core.ViewFront)

	order := func() []string {
		layers := d.ListLayers(core.ViewFront)
		ids := make([]string, len(layers))
		for i, l := range layers {
			ids[i] = l.ID
		}
		return ids
	}
	assertOrder := func(t *testing.T, want ...string) {
		t.Helper()
		got := order()
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("paint order = %v, want %v", got, want)
			}
		}
	}

	if err := d.Reorder(l1.ID, MoveUp); err != nil {
		t.Fatalf("Reorder(up) error = %v", err)
	}
	assertOrder(t, l2.ID, l1.ID, l3.ID)

	if err := d.Reorder(l3.ID, MoveToBottom); err != nil {
		t.Fatalf("Reorder(back) error = %v", err)
	}
	assertOrder(t, l3.ID, l2.ID, l1.ID)

	if err := d.Reorder(l3.ID, MoveToFront); err != nil {
		t.Fatalf("Reorder(front) error = %v", err)
	}
	assertOrder(t, l2.ID, l1.ID, l3.ID)

	// Moving down off the bottom clamps.
	if err := d.Reorder(l2.ID, MoveDown); err != nil {
		t.Fatalf("Reorder(down at bottom) error = %v", err)
	}
	assertOrder(t, l2.ID, l1.ID, l3.ID)

	if err := d.Reorder("missing", MoveUp); !errors.Is(err, core.ErrLayerNotFound) {
		t.Errorf("Reorder(missing) error = %v, want ErrLayerNotFound", err)
	}
}

func TestIDsUniqueAfterMutations(t *testing.T) {
	d := New()
	var ids []string
	for _, view := range core.Views {
		for i := 0; i < 3; i++ {
			ids = append(ids, addTextLayer(t, d, view).ID)
		}
	}
	if err := d.DeleteLayer(ids[0]); err != nil {
		t.Fatalf("DeleteLayer() error = %v", err)
	}
	if err := d.Reorder(ids[4], MoveToFront); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, view := range core.Views {
		for _, l := range d.ListLayers(view) {
			if seen[l.ID] {
				t.Fatalf("duplicate layer id %s", l.ID)
			}
			seen[l.ID] = true
		}
	}
	if len(seen) != d.Len() {
		t.Errorf("listed %d distinct layers, design reports %d", len(seen), d.Len())
	}
}

func TestListLayers_ReturnsCopies(t *testing.T) {
	d := New()
	layer := addTextLayer(t, d, core.ViewFront)

	listed := d.ListLayers(core.ViewFront)
	listed[0].X = 999
	listed[0].Text.Content = "corrupted"

	got, _ := d.LayerByID(layer.ID)
	if got.X == 999 || got.Text.Content == "corrupted" {
		t.Errorf("mutating a listed layer corrupted the store")
	}
}
