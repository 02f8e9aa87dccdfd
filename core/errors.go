package core

import "errors"

// Operation failures surfaced by the design model. Every mutation either
// fully applies or returns one of these without touching any state; callers
// match with errors.Is and decide how to present the failure.
var (
	ErrInvalidLayerParams     = errors.New("invalid layer params")
	ErrDuplicateLayerID       = errors.New("duplicate layer id")
	ErrLayerNotFound          = errors.New("layer not found")
	ErrInvalidFieldForVariant = errors.New("field not valid for layer variant")
	ErrLayerLocked            = errors.New("layer is locked")
	ErrLayerNotInActiveView   = errors.New("layer not in active view")
	ErrUnknownTextStyle       = errors.New("unknown text style")
)
