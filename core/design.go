package core

import (
	"context"
	"time"
)

type (
	// SavedDesign is a persisted product customization: the serialized
	// snapshot of every view's layers plus the metadata shown in a
	// customer's saved-designs list.
	SavedDesign struct {
		ID        string    `json:"id"`
		OwnerID   string    `json:"-"` // Not exposed in JSON responses, used internally.
		Name      string    `json:"name"`
		ProductID string    `json:"productId"`
		Thumbnail string    `json:"thumbnail,omitempty"`
		Data      []byte    `json:"data,omitempty"` // The full design snapshot, not included in list views.
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// DesignStore defines the persistence layer for saved designs.
	// All operations are scoped to a specific owner.
	DesignStore interface {
		// List returns metadata for all designs owned by a user.
		// The returned SavedDesign objects should not contain the `Data`
		// field to keep the response light.
		List(ctx context.Context, ownerID string) ([]*SavedDesign, error)

		// Get returns a single design by its ID, ensuring it belongs to the owner.
		Get(ctx context.Context, ownerID, id string) (*SavedDesign, error)

		// Save creates or updates a design for an owner.
		Save(ctx context.Context, design *SavedDesign) error

		// Delete removes a design, ensuring it belongs to the owner.
		Delete(ctx context.Context, ownerID, id string) error
	}

	// AssetStore resolves uploaded artwork and sticker files to opaque URIs
	// usable as a layer's src. The design model never interprets the URI.
	AssetStore interface {
		// PutAsset stores the raw bytes under the owner and returns the URI.
		PutAsset(ctx context.Context, ownerID, name string, data []byte) (string, error)

		// GetAsset returns the bytes previously stored under the URI.
		GetAsset(ctx context.Context, uri string) ([]byte, error)
	}
)
