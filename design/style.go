package design

import (
	"fmt"

	"printframe/core"
)

type (
	// Shadow is one drop-shadow pass behind the glyphs.
	Shadow struct {
		Color   string  `json:"color"`
		OffsetX float64 `json:"offsetX"`
		OffsetY float64 `json:"offsetY"`
		Blur    float64 `json:"blur"`
	}

	// Stroke outlines the glyphs.
	Stroke struct {
		Color string  `json:"color"`
		Width float64 `json:"width"`
	}

	// TextEffects is everything the renderer needs to paint a text layer's
	// style: a fill plus optional stroke and shadow passes. Shadows paint
	// back to front, in slice order.
	TextEffects struct {
		Fill    string   `json:"fill"`
		Stroke  *Stroke  `json:"stroke,omitempty"`
		Shadows []Shadow `json:"shadows,omitempty"`
	}
)

// extrusionDepth is the number of stacked shadow passes that fake depth for
// the 3d style.
const extrusionDepth = 4

// ResolveTextStyle derives the visual-effect parameters for a declarative
// text style. Pure and deterministic; layers persist only the style name and
// the renderer resolves it at paint time. Out-of-enum styles are refused
// rather than silently rendered as normal.
func ResolveTextStyle(style core.TextStyle, baseColor string) (TextEffects, error) {
	switch style {
	case core.TextStyleNormal:
		return TextEffects{Fill: baseColor}, nil
	case core.TextStyleShadow:
		return TextEffects{
			Fill: baseColor,
			Shadows: []Shadow{
				{Color: "rgba(0,0,0,0.45)", OffsetX: 2, OffsetY: 2, Blur: 4},
			},
		}, nil
	case core.TextStyleOutline:
		return TextEffects{
			Fill:   baseColor,
			Stroke: &Stroke{Color: "#000000", Width: 2},
		}, nil
	case core.TextStyle3D:
		shadows := make([]Shadow, 0, extrusionDepth)
		for i := extrusionDepth; i >= 1; i-- {
			shadows = append(shadows, Shadow{
				Color:   "rgba(0,0,0,0.3)",
				OffsetX: float64(i),
				OffsetY: float64(i),
			})
		}
		return TextEffects{Fill: baseColor, Shadows: shadows}, nil
	}
	return TextEffects{}, fmt.Errorf("%w: %q", core.ErrUnknownTextStyle, style)
}
