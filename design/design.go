package design

import (
	"fmt"
	"sort"

	"printframe/core"
)

// ReorderDirection is a relative z-order move.
type ReorderDirection string

const (
	MoveUp       ReorderDirection = "up"
	MoveDown     ReorderDirection = "down"
	MoveToFront  ReorderDirection = "front"
	MoveToBottom ReorderDirection = "back"
)

// ParseReorderDirection validates a raw direction.
func ParseReorderDirection(s string) (ReorderDirection, error) {
	switch ReorderDirection(s) {
	case MoveUp, MoveDown, MoveToFront, MoveToBottom:
		return ReorderDirection(s), nil
	}
	return "", fmt.Errorf("%w: unknown reorder direction %q", core.ErrInvalidLayerParams, s)
}

// entry pairs a stored layer with its insertion sequence number. The
// sequence breaks z-index ties: on equal z the earlier-created layer
// paints first.
type entry struct {
	layer *core.Layer
	seq   uint64
}

// Design is the complete set of layers across all views for one product
// customization. It is the single mutable layer store of an editing session:
// ids are unique design-wide, every layer stays in the view it was created
// on, and every mutation either fully applies or leaves the design untouched.
//
// Design is not safe for concurrent use; the owning session serializes
// access.
type Design struct {
	byID  map[string]*entry
	views map[core.View][]*entry
	seq   uint64
}

// New creates an empty design.
func New() *Design {
	return &Design{
		byID:  make(map[string]*entry),
		views: make(map[core.View][]*entry),
	}
}

// Len returns the number of layers across all views.
func (d *Design) Len() int {
	return len(d.byID)
}

// MaxZ returns the highest z-index currently used in the view, or 0 when
// the view is empty. New layers are created at MaxZ+1.
func (d *Design) MaxZ(view core.View) int {
	maxZ := 0
	for _, e := range d.views[view] {
		if e.layer.ZIndex > maxZ {
			maxZ = e.layer.ZIndex
		}
	}
	return maxZ
}

// AddLayer appends the layer to its view's stack. The design keeps its own
// copy, so the caller's pointer stays inert.
func (d *Design) AddLayer(layer *core.Layer) error {
	if err := layer.Validate(); err != nil {
		return err
	}
	if _, exists := d.byID[layer.ID]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateLayerID, layer.ID)
	}

	d.seq++
	e := &entry{layer: layer.Clone(), seq: d.seq}
	d.byID[layer.ID] = e
	d.views[layer.View] = append(d.views[layer.View], e)
	return nil
}

// LayerByID returns a copy of the layer, looked up across all views.
func (d *Design) LayerByID(id string) (*core.Layer, error) {
	e, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrLayerNotFound, id)
	}
	return e.layer.Clone(), nil
}

// UpdateLayer applies a partial patch to the layer with the given id.
// Patching a payload foreign to the layer's variant fails the whole update,
// as does any patch beyond the Visible/Locked toggles while the layer is
// locked. No field is committed unless the patched layer is valid.
func (d *Design) UpdateLayer(id string, patch core.LayerPatch) error {
	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrLayerNotFound, id)
	}

	if patch.Text != nil && e.layer.Kind != core.KindText {
		return fmt.Errorf("%w: text fields on %s layer %s", core.ErrInvalidFieldForVariant, e.layer.Kind, id)
	}
	if patch.Image != nil && e.layer.Kind != core.KindImage {
		return fmt.Errorf("%w: image fields on %s layer %s", core.ErrInvalidFieldForVariant, e.layer.Kind, id)
	}
	if patch.Sticker != nil && e.layer.Kind != core.KindSticker {
		return fmt.Errorf("%w: sticker fields on %s layer %s", core.ErrInvalidFieldForVariant, e.layer.Kind, id)
	}

	// A locked layer only accepts toggling its own Visible/Locked flags.
	// Content edits are refused too: under curve, text changes move the
	// bounding box just like a resize would.
	if e.layer.Locked && !patch.TouchesOnlyFlags() {
		return fmt.Errorf("%w: %s", core.ErrLayerLocked, id)
	}

	next := e.layer.Clone()
	applyPatch(next, patch)
	if err := next.Validate(); err != nil {
		return err
	}

	e.layer = next
	return nil
}

func applyPatch(l *core.Layer, p core.LayerPatch) {
	if p.X != nil {
		l.X = *p.X
	}
	if p.Y != nil {
		l.Y = *p.Y
	}
	if p.Width != nil {
		l.Width = *p.Width
	}
	if p.Height != nil {
		l.Height = *p.Height
	}
	if p.Rotation != nil {
		l.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		l.Opacity = *p.Opacity
	}
	if p.Visible != nil {
		l.Visible = *p.Visible
	}
	if p.Locked != nil {
		l.Locked = *p.Locked
	}
	if p.Text != nil && l.Text != nil {
		applyTextPatch(l.Text, *p.Text)
	}
	if p.Image != nil && l.Image != nil {
		if p.Image.Src != nil {
			l.Image.Src = *p.Image.Src
		}
		if p.Image.IsAI != nil {
			l.Image.IsAI = *p.Image.IsAI
		}
	}
	if p.Sticker != nil && l.Sticker != nil {
		if p.Sticker.Src != nil {
			l.Sticker.Src = *p.Sticker.Src
		}
	}
}

func applyTextPatch(t *core.TextAttrs, p core.TextPatch) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		t.FontWeight = *p.FontWeight
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.TextAlign != nil {
		t.TextAlign = *p.TextAlign
	}
	if p.LetterSpacing != nil {
		t.LetterSpacing = *p.LetterSpacing
	}
	if p.LineHeight != nil {
		t.LineHeight = *p.LineHeight
	}
	if p.Style != nil {
		t.Style = *p.Style
	}
	if p.Curve != nil {
		t.Curve = *p.Curve
	}
}

// DeleteLayer removes the layer regardless of lock state.
func (d *Design) DeleteLayer(id string) error {
	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrLayerNotFound, id)
	}

	view := e.layer.View
	entries := d.views[view]
	for i, ve := range entries {
		if ve == e {
			d.views[view] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	delete(d.byID, id)
	return nil
}

// SetZIndex assigns an explicit z-index. Duplicate z values are tolerated;
// paint order falls back to creation order on ties.
func (d *Design) SetZIndex(id string, z int) error {
	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrLayerNotFound, id)
	}
	e.layer.ZIndex = z
	return nil
}

// Reorder moves the layer one step or all the way through its view's paint
// order, then renumbers the view's z-indexes sequentially so they stay
// unique. Lock state does not restrict stacking changes.
func (d *Design) Reorder(id string, dir ReorderDirection) error {
	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrLayerNotFound, id)
	}

	ordered := d.paintOrder(e.layer.View)
	pos := 0
	for i, oe := range ordered {
		if oe == e {
			pos = i
			break
		}
	}

	target := pos
	switch dir {
	case MoveUp:
		target = pos + 1
	case MoveDown:
		target = pos - 1
	case MoveToFront:
		target = len(ordered) - 1
	case MoveToBottom:
		target = 0
	default:
		return fmt.Errorf("%w: unknown reorder direction %q", core.ErrInvalidLayerParams, dir)
	}
	if target < 0 {
		target = 0
	}
	if target > len(ordered)-1 {
		target = len(ordered) - 1
	}

	moved := append([]*entry{}, ordered[:pos]...)
	moved = append(moved, ordered[pos+1:]...)
	moved = append(moved[:target], append([]*entry{e}, moved[target:]...)...)

	for i, oe := range moved {
		oe.layer.ZIndex = i + 1
	}
	return nil
}

// ListLayers returns copies of the view's layers in ascending paint order:
// lowest z first, ties broken by creation order.
func (d *Design) ListLayers(view core.View) []*core.Layer {
	ordered := d.paintOrder(view)
	layers := make([]*core.Layer, 0, len(ordered))
	for _, e := range ordered {
		layers = append(layers, e.layer.Clone())
	}
	return layers
}

// HasLayerInView reports whether the id names a layer belonging to the view.
func (d *Design) HasLayerInView(id string, view core.View) bool {
	e, ok := d.byID[id]
	return ok && e.layer.View == view
}

func (d *Design) paintOrder(view core.View) []*entry {
	ordered := append([]*entry{}, d.views[view]...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].layer.ZIndex != ordered[j].layer.ZIndex {
			return ordered[i].layer.ZIndex < ordered[j].layer.ZIndex
		}
		return ordered[i].seq < ordered[j].seq
	})
	return ordered
}
