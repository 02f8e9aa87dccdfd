package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"printframe/core"
)

// memStore implements both DesignStore and AssetStore for in-memory storage.
// Designs are keyed by owner, then by design id; assets by their URI.
type memStore struct {
	mu      sync.RWMutex
	designs map[string]map[string]*core.SavedDesign
	assets  map[string][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{
		designs: make(map[string]map[string]*core.SavedDesign),
		assets:  make(map[string][]byte),
	}
}

// List returns metadata for all designs owned by a user. Part of the DesignStore interface.
func (s *memStore) List(ctx context.Context, ownerID string) ([]*core.SavedDesign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned, ok := s.designs[ownerID]
	if !ok {
		return []*core.SavedDesign{}, nil // No designs for this owner, return empty slice
	}

	designs := make([]*core.SavedDesign, 0, len(owned))
	for _, d := range owned {
		// Important: create a copy without the large `Data` field for the list view
		listDesign := &core.SavedDesign{
			ID:        d.ID,
			OwnerID:   d.OwnerID,
			Name:      d.Name,
			ProductID: d.ProductID,
			Thumbnail: d.Thumbnail,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
		designs = append(designs, listDesign)
	}

	logrus.WithField("owner_id", ownerID).Infof("Listed %d designs", len(designs))
	return designs, nil
}

// Get returns a single design by its ID, ensuring it belongs to the owner. Part of the DesignStore interface.
func (s *memStore) Get(ctx context.Context, ownerID, id string) (*core.SavedDesign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "design_id": id})

	owned, ok := s.designs[ownerID]
	if !ok {
		log.Warn("Owner has no designs")
		return nil, fmt.Errorf("design with id %s not found for owner %s", id, ownerID)
	}

	d, ok := owned[id]
	if !ok {
		log.Warn("Design not found for owner")
		return nil, fmt.Errorf("design with id %s not found for owner %s", id, ownerID)
	}

	log.Info("Design retrieved successfully")
	return d, nil
}

// Save creates or updates a design for an owner. Part of the DesignStore interface.
func (s *memStore) Save(ctx context.Context, design *core.SavedDesign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{"owner_id": design.OwnerID, "design_id": design.ID})

	if design.OwnerID == "" {
		return fmt.Errorf("OwnerID cannot be empty")
	}
	if design.ID == "" {
		return fmt.Errorf("design ID cannot be empty for save operation")
	}

	owned, ok := s.designs[design.OwnerID]
	if !ok {
		owned = make(map[string]*core.SavedDesign)
		s.designs[design.OwnerID] = owned
	}

	now := time.Now()
	if existing, exists := owned[design.ID]; exists {
		design.CreatedAt = existing.CreatedAt
		design.UpdatedAt = now
	} else {
		design.CreatedAt = now
		design.UpdatedAt = now
	}

	owned[design.ID] = design
	log.Info("Design saved successfully")
	return nil
}

// Delete removes a design, ensuring it belongs to the owner. Part of the DesignStore interface.
func (s *memStore) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "design_id": id})

	owned, ok := s.designs[ownerID]
	if !ok {
		log.Warn("Owner has no designs to delete from")
		return fmt.Errorf("owner %s has no designs", ownerID)
	}

	if _, ok := owned[id]; !ok {
		log.Warn("Design not found for deletion")
		return fmt.Errorf("design with id %s not found for owner %s", id, ownerID)
	}

	delete(owned, id)
	log.Info("Design deleted successfully")
	return nil
}

// PutAsset stores uploaded artwork bytes and returns an opaque URI. Part of the AssetStore interface.
func (s *memStore) PutAsset(ctx context.Context, ownerID, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := fmt.Sprintf("mem://assets/%s/%s", ownerID, ulid.Make().String())
	s.assets[uri] = data

	logrus.WithFields(logrus.Fields{
		"owner_id":    ownerID,
		"asset_name":  name,
		"asset_uri":   uri,
		"data_length": len(data),
	}).Info("Asset stored")
	return uri, nil
}

// GetAsset returns bytes previously stored under the URI. Part of the AssetStore interface.
func (s *memStore) GetAsset(ctx context.Context, uri string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.assets[uri]
	if !ok {
		logrus.WithField("asset_uri", uri).Warn("Asset with specified URI not found")
		return nil, fmt.Errorf("asset %s not found", uri)
	}
	return data, nil
}
