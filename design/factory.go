package design

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"printframe/core"
)

// Defaults applied to freshly created layers. The editor drops every new
// layer at the same spot; the user drags it into place afterwards.
const (
	defaultX      = 120.0
	defaultY      = 120.0
	defaultWidth  = 200.0
	defaultHeight = 80.0

	DefaultTextContent = "Your text here"
	DefaultFontFamily  = "Arial"
	defaultFontSize    = 32.0
	defaultFontWeight  = "normal"
	defaultTextColor   = "#000000"
	defaultTextAlign   = "center"
	defaultLineHeight  = 1.2
)

// InitParams carries the variant-specific inputs for a new layer. Src is
// required for image and sticker layers; every text field is optional and
// falls back to the defaults above.
type InitParams struct {
	Src  string `json:"src,omitempty"`
	IsAI bool   `json:"isAI,omitempty"`

	Text       string `json:"text,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
	Color      string `json:"color,omitempty"`
}

// NewLayer builds a layer of the given kind with a fresh ULID, placed at the
// top of the view's stack (topZ is the current maximum z-index in that view,
// 0 when empty). It only constructs; insertion is the caller's job.
func NewLayer(kind core.LayerKind, view core.View, topZ int, params InitParams) (*core.Layer, error) {
	if _, err := core.ParseView(string(view)); err != nil {
		return nil, err
	}

	layer := &core.Layer{
		ID:      ulid.Make().String(),
		Kind:    kind,
		View:    view,
		X:       defaultX,
		Y:       defaultY,
		Width:   defaultWidth,
		Height:  defaultHeight,
		Opacity: 1,
		ZIndex:  topZ + 1,
		Visible: true,
	}

	switch kind {
	case core.KindText:
		attrs := &core.TextAttrs{
			Content:    DefaultTextContent,
			FontFamily: DefaultFontFamily,
			FontSize:   defaultFontSize,
			FontWeight: defaultFontWeight,
			Color:      defaultTextColor,
			TextAlign:  defaultTextAlign,
			LineHeight: defaultLineHeight,
			Style:      core.TextStyleNormal,
		}
		if params.Text != "" {
			attrs.Content = params.Text
		}
		if params.FontFamily != "" {
			attrs.FontFamily = params.FontFamily
		}
		if params.Color != "" {
			attrs.Color = params.Color
		}
		layer.Text = attrs
	case core.KindImage:
		if params.Src == "" {
			return nil, fmt.Errorf("%w: image layer requires src", core.ErrInvalidLayerParams)
		}
		layer.Image = &core.ImageAttrs{Src: params.Src, IsAI: params.IsAI}
	case core.KindSticker:
		if params.Src == "" {
			return nil, fmt.Errorf("%w: sticker layer requires src", core.ErrInvalidLayerParams)
		}
		layer.Sticker = &core.StickerAttrs{Src: params.Src}
	default:
		return nil, fmt.Errorf("%w: unknown layer kind %q", core.ErrInvalidLayerParams, kind)
	}

	return layer, nil
}
