package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"printframe/core"
)

type fsStore struct {
	basePath string
}

// NewStore creates a new filesystem-based store. Designs live under
// <base>/designs/<owner>/<id> as JSON; assets under <base>/assets/<owner>/.
func NewStore(basePath string) *fsStore {
	for _, dir := range []string{basePath, filepath.Join(basePath, "designs"), filepath.Join(basePath, "assets")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create storage directory: %v", err)
		}
	}
	return &fsStore{basePath: basePath}
}

func (s *fsStore) ownerDesignPath(ownerID string) string {
	return filepath.Join(s.basePath, "designs", ownerID)
}

// safeJoin resolves name under dir and refuses paths that escape it.
func safeJoin(dir, name string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: access denied")
	}
	return absPath, nil
}

// List returns metadata for all designs owned by a user. Part of the DesignStore interface.
func (s *fsStore) List(ctx context.Context, ownerID string) ([]*core.SavedDesign, error) {
	ownerPath := s.ownerDesignPath(ownerID)
	log := logrus.WithField("owner_id", ownerID).WithField("path", ownerPath)

	files, err := os.ReadDir(ownerPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("Owner directory does not exist, returning empty list.")
			return []*core.SavedDesign{}, nil
		}
		log.WithError(err).Error("Failed to read owner directory")
		return nil, err
	}

	designs := make([]*core.SavedDesign, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		filePath := filepath.Join(ownerPath, file.Name())
		fileInfo, err := file.Info()
		if err != nil {
			log.WithError(err).Warnf("Failed to get file info for %s, skipping", file.Name())
			continue
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.WithError(err).Warnf("Failed to read design file %s, skipping", file.Name())
			continue
		}

		var design core.SavedDesign
		if err := json.Unmarshal(data, &design); err != nil {
			log.WithError(err).Warnf("Failed to unmarshal design file %s, skipping", file.Name())
			continue
		}

		// For list view, we don't need the full snapshot blob.
		// Also ensure we populate metadata from the filesystem.
		design.Data = nil
		design.OwnerID = ownerID
		design.UpdatedAt = fileInfo.ModTime()
		designs = append(designs, &design)
	}

	log.Infof("Listed %d designs", len(designs))
	return designs, nil
}

// Get returns a single design by its ID, ensuring it belongs to the owner. Part of the DesignStore interface.
func (s *fsStore) Get(ctx context.Context, ownerID, id string) (*core.SavedDesign, error) {
	ownerPath := s.ownerDesignPath(ownerID)
	log := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "design_id": id})

	filePath, err := safeJoin(ownerPath, id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Design file not found")
			return nil, fmt.Errorf("design %s not found", id)
		}
		log.WithError(err).Error("Failed to read design file")
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to get file stats")
		return nil, err
	}

	var design core.SavedDesign
	if err := json.Unmarshal(data, &design); err != nil {
		log.WithError(err).Error("Failed to unmarshal design data")
		return nil, err
	}
	design.OwnerID = ownerID
	design.UpdatedAt = info.ModTime()

	log.Info("Design retrieved successfully")
	return &design, nil
}

// Save creates or updates a design for an owner. Part of the DesignStore interface.
func (s *fsStore) Save(ctx context.Context, design *core.SavedDesign) error {
	ownerPath := s.ownerDesignPath(design.OwnerID)
	log := logrus.WithFields(logrus.Fields{"owner_id": design.OwnerID, "design_id": design.ID})

	if err := os.MkdirAll(ownerPath, 0755); err != nil {
		log.WithError(err).Error("Failed to create owner directory")
		return err
	}

	filePath, err := safeJoin(ownerPath, design.ID)
	if err != nil {
		return err
	}

	// Set creation/update time before saving
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		design.CreatedAt = time.Now()
	} else if err == nil {
		design.CreatedAt = info.ModTime() // This is not ideal, but filesystem doesn't store creation time easily.
	}
	design.UpdatedAt = time.Now()

	log.Info("Saving design")
	data, err := json.Marshal(design)
	if err != nil {
		log.WithError(err).Error("Failed to marshal design for saving")
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write design file")
		return err
	}

	return nil
}

// Delete removes a design, ensuring it belongs to the owner. Part of the DesignStore interface.
func (s *fsStore) Delete(ctx context.Context, ownerID, id string) error {
	ownerPath := s.ownerDesignPath(ownerID)
	log := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "design_id": id})

	filePath, err := safeJoin(ownerPath, id)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			log.Warn("Design file not found for deletion, considered successful.")
			return nil // If it doesn't exist, the goal is achieved.
		}
		log.WithError(err).Error("Failed to delete design file")
		return err
	}

	log.Info("Design deleted successfully")
	return nil
}

// PutAsset stores uploaded artwork bytes and returns a file URI. Part of the AssetStore interface.
func (s *fsStore) PutAsset(ctx context.Context, ownerID, name string, data []byte) (string, error) {
	ownerPath := filepath.Join(s.basePath, "assets", ownerID)
	if err := os.MkdirAll(ownerPath, 0755); err != nil {
		return "", err
	}

	id := ulid.Make().String()
	filePath, err := safeJoin(ownerPath, id)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		logrus.WithError(err).WithField("asset_name", name).Error("Failed to write asset file")
		return "", err
	}

	uri := "file://" + filePath
	logrus.WithFields(logrus.Fields{
		"owner_id":    ownerID,
		"asset_name":  name,
		"asset_uri":   uri,
		"data_length": len(data),
	}).Info("Asset stored")
	return uri, nil
}

// GetAsset returns bytes previously stored under the URI. Part of the AssetStore interface.
func (s *fsStore) GetAsset(ctx context.Context, uri string) ([]byte, error) {
	path := strings.TrimPrefix(uri, "file://")

	absBase, err := filepath.Abs(filepath.Join(s.basePath, "assets"))
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid path: access denied")
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("asset %s not found", uri)
		}
		return nil, err
	}
	return data, nil
}
