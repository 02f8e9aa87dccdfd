package core

type (
	// LayerPatch is a partial update to a layer. Nil fields are left
	// untouched. Variant payload patches must match the layer's kind;
	// patching a foreign payload fails the whole update.
	LayerPatch struct {
		X        *float64 `json:"x,omitempty"`
		Y        *float64 `json:"y,omitempty"`
		Width    *float64 `json:"width,omitempty"`
		Height   *float64 `json:"height,omitempty"`
		Rotation *float64 `json:"rotation,omitempty"`
		Opacity  *float64 `json:"opacity,omitempty"`
		Visible  *bool    `json:"visible,omitempty"`
		Locked   *bool    `json:"locked,omitempty"`

		Text    *TextPatch    `json:"text,omitempty"`
		Image   *ImagePatch   `json:"image,omitempty"`
		Sticker *StickerPatch `json:"sticker,omitempty"`
	}

	TextPatch struct {
		Content       *string    `json:"content,omitempty"`
		FontFamily    *string    `json:"fontFamily,omitempty"`
		FontSize      *float64   `json:"fontSize,omitempty"`
		FontWeight    *string    `json:"fontWeight,omitempty"`
		Color         *string    `json:"color,omitempty"`
		TextAlign     *string    `json:"textAlign,omitempty"`
		LetterSpacing *float64   `json:"letterSpacing,omitempty"`
		LineHeight    *float64   `json:"lineHeight,omitempty"`
		Style         *TextStyle `json:"textStyle,omitempty"`
		Curve         *float64   `json:"curve,omitempty"`
	}

	ImagePatch struct {
		Src  *string `json:"src,omitempty"`
		IsAI *bool   `json:"isAI,omitempty"`
	}

	StickerPatch struct {
		Src *string `json:"src,omitempty"`
	}
)

// IsZero reports whether the patch changes nothing.
func (p *LayerPatch) IsZero() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Opacity == nil && p.Visible == nil && p.Locked == nil &&
		p.Text == nil && p.Image == nil && p.Sticker == nil
}

// TouchesOnlyFlags reports whether the patch is limited to the Visible and
// Locked toggles, the only fields a locked layer still accepts.
func (p *LayerPatch) TouchesOnlyFlags() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Opacity == nil &&
		p.Text == nil && p.Image == nil && p.Sticker == nil
}
