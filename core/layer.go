package core

import "fmt"

// View identifies which physical face of a garment a layer is drawn on.
// A design is partitioned by view; layers never move between views.
type View string

const (
	ViewFront View = "front"
	ViewBack  View = "back"
	ViewLeft  View = "left"
	ViewRight View = "right"
)

// Views lists every valid view in a stable order.
var Views = []View{ViewFront, ViewBack, ViewLeft, ViewRight}

// ParseView validates a raw view name.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewFront, ViewBack, ViewLeft, ViewRight:
		return View(s), nil
	}
	return "", fmt.Errorf("%w: unknown view %q", ErrInvalidLayerParams, s)
}

// LayerKind is the variant tag distinguishing text, image and sticker layers.
type LayerKind string

const (
	KindText    LayerKind = "text"
	KindImage   LayerKind = "image"
	KindSticker LayerKind = "sticker"
)

// ParseLayerKind validates a raw layer kind.
func ParseLayerKind(s string) (LayerKind, error) {
	switch LayerKind(s) {
	case KindText, KindImage, KindSticker:
		return LayerKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown layer kind %q", ErrInvalidLayerParams, s)
}

// TextStyle selects the rendering treatment of a text layer.
type TextStyle string

const (
	TextStyleNormal  TextStyle = "normal"
	TextStyleShadow  TextStyle = "shadow"
	TextStyleOutline TextStyle = "outline"
	TextStyle3D      TextStyle = "3d"
)

type (
	// Layer is one visual element placed on a garment view. It is a tagged
	// variant: Kind selects which of the attribute payloads is set, and
	// exactly one of Text, Image or Sticker is non-nil.
	Layer struct {
		ID       string    `json:"id"`
		Kind     LayerKind `json:"kind"`
		View     View      `json:"view"`
		X        float64   `json:"x"`
		Y        float64   `json:"y"`
		Width    float64   `json:"width"`
		Height   float64   `json:"height"`
		Rotation float64   `json:"rotation"`
		Opacity  float64   `json:"opacity"`
		ZIndex   int       `json:"zIndex"`
		Visible  bool      `json:"visible"`
		Locked   bool      `json:"locked"`

		Text    *TextAttrs    `json:"text,omitempty"`
		Image   *ImageAttrs   `json:"image,omitempty"`
		Sticker *StickerAttrs `json:"sticker,omitempty"`
	}

	// TextAttrs holds the fields specific to text layers.
	TextAttrs struct {
		Content       string    `json:"content"`
		FontFamily    string    `json:"fontFamily"`
		FontSize      float64   `json:"fontSize"`
		FontWeight    string    `json:"fontWeight"`
		Color         string    `json:"color"`
		TextAlign     string    `json:"textAlign"`
		LetterSpacing float64   `json:"letterSpacing"`
		LineHeight    float64   `json:"lineHeight"`
		Style         TextStyle `json:"textStyle"`
		Curve         float64   `json:"curve"`
	}

	// ImageAttrs holds the fields specific to image layers. IsAI marks
	// AI-generated artwork as opposed to a user upload.
	ImageAttrs struct {
		Src  string `json:"src"`
		IsAI bool   `json:"isAI"`
	}

	// StickerAttrs holds the fields specific to sticker layers.
	StickerAttrs struct {
		Src string `json:"src"`
	}
)

// Clone returns a deep copy of the layer. Read paths hand out clones so a
// renderer can never corrupt store state through a shared pointer.
func (l *Layer) Clone() *Layer {
	c := *l
	if l.Text != nil {
		t := *l.Text
		c.Text = &t
	}
	if l.Image != nil {
		i := *l.Image
		c.Image = &i
	}
	if l.Sticker != nil {
		s := *l.Sticker
		c.Sticker = &s
	}
	return &c
}

// Validate checks the cross-field invariants every well-formed layer obeys.
func (l *Layer) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: layer id is empty", ErrInvalidLayerParams)
	}
	if _, err := ParseView(string(l.View)); err != nil {
		return err
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: layer size must be positive, got %gx%g", ErrInvalidLayerParams, l.Width, l.Height)
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return fmt.Errorf("%w: opacity %g outside [0,1]", ErrInvalidLayerParams, l.Opacity)
	}
	switch l.Kind {
	case KindText:
		if l.Text == nil {
			return fmt.Errorf("%w: text layer without text attributes", ErrInvalidLayerParams)
		}
		if l.Image != nil || l.Sticker != nil {
			return fmt.Errorf("%w: text layer carries foreign attributes", ErrInvalidLayerParams)
		}
		if l.Text.FontSize <= 0 {
			return fmt.Errorf("%w: fontSize must be positive", ErrInvalidLayerParams)
		}
		if l.Text.LineHeight <= 0 {
			return fmt.Errorf("%w: lineHeight must be positive", ErrInvalidLayerParams)
		}
		switch l.Text.Style {
		case TextStyleNormal, TextStyleShadow, TextStyleOutline, TextStyle3D:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownTextStyle, l.Text.Style)
		}
	case KindImage:
		if l.Image == nil || l.Image.Src == "" {
			return fmt.Errorf("%w: image layer requires a non-empty src", ErrInvalidLayerParams)
		}
		if l.Text != nil || l.Sticker != nil {
			return fmt.Errorf("%w: image layer carries foreign attributes", ErrInvalidLayerParams)
		}
	case KindSticker:
		if l.Sticker == nil || l.Sticker.Src == "" {
			return fmt.Errorf("%w: sticker layer requires a non-empty src", ErrInvalidLayerParams)
		}
		if l.Text != nil || l.Image != nil {
			return fmt.Errorf("%w: sticker layer carries foreign attributes", ErrInvalidLayerParams)
		}
	default:
		return fmt.Errorf("%w: unknown layer kind %q", ErrInvalidLayerParams, l.Kind)
	}
	return nil
}
