package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"printframe/core"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	// Saved designs, one snapshot blob per (owner, design).
	designTableStmt := `
	CREATE TABLE IF NOT EXISTS designs (
		id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		name TEXT,
		product_id TEXT,
		thumbnail TEXT,
		data BLOB,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (owner_id, id)
	);`
	if _, err = db.Exec(designTableStmt); err != nil {
		log.Fatalf("failed to create designs table: %v", err)
	}

	// Uploaded artwork and sticker files, addressed by URI.
	assetTableStmt := `
	CREATE TABLE IF NOT EXISTS assets (
		uri TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT,
		data BLOB,
		created_at DATETIME
	);`
	if _, err = db.Exec(assetTableStmt); err != nil {
		log.Fatalf("failed to create assets table: %v", err)
	}

	return &sqliteStore{db}
}

// DesignStore implementation
func (s *sqliteStore) List(ctx context.Context, ownerID string) ([]*core.SavedDesign, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, product_id, updated_at, thumbnail FROM designs WHERE owner_id = ?", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []*core.SavedDesign
	for rows.Next() {
		var design core.SavedDesign
		design.OwnerID = ownerID
		if err := rows.Scan(&design.ID, &design.Name, &design.ProductID, &design.UpdatedAt, &design.Thumbnail); err != nil {
			return nil, err
		}
		designs = append(designs, &design)
	}
	return designs, rows.Err()
}

func (s *sqliteStore) Get(ctx context.Context, ownerID, id string) (*core.SavedDesign, error) {
	var design core.SavedDesign
	design.OwnerID = ownerID
	design.ID = id
	err := s.db.QueryRowContext(ctx,
		"SELECT name, product_id, data, created_at, updated_at, thumbnail FROM designs WHERE owner_id = ? AND id = ?",
		ownerID, id,
	).Scan(&design.Name, &design.ProductID, &design.Data, &design.CreatedAt, &design.UpdatedAt, &design.Thumbnail)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("design not found")
		}
		return nil, err
	}
	return &design, nil
}

func (s *sqliteStore) Save(ctx context.Context, design *core.SavedDesign) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Rollback on any error

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM designs WHERE owner_id = ? AND id = ?", design.OwnerID, design.ID).Scan(&exists)

	now := time.Now()
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if exists {
		// Update
		_, err = tx.ExecContext(ctx,
			"UPDATE designs SET name = ?, product_id = ?, data = ?, updated_at = ?, thumbnail = ? WHERE owner_id = ? AND id = ?",
			design.Name, design.ProductID, design.Data, now, design.Thumbnail, design.OwnerID, design.ID)
	} else {
		// Insert
		_, err = tx.ExecContext(ctx,
			"INSERT INTO designs (id, owner_id, name, product_id, data, created_at, updated_at, thumbnail) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			design.ID, design.OwnerID, design.Name, design.ProductID, design.Data, now, now, design.Thumbnail)
	}

	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *sqliteStore) Delete(ctx context.Context, ownerID, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM designs WHERE owner_id = ? AND id = ?", ownerID, id)
	return err
}

// AssetStore implementation
func (s *sqliteStore) PutAsset(ctx context.Context, ownerID, name string, data []byte) (string, error) {
	uri := fmt.Sprintf("asset://%s", ulid.Make().String())
	log := logrus.WithFields(logrus.Fields{
		"owner_id":    ownerID,
		"asset_name":  name,
		"asset_uri":   uri,
		"data_length": len(data),
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO assets (uri, owner_id, name, data, created_at) VALUES (?, ?, ?, ?, ?)",
		uri, ownerID, name, data, time.Now())
	if err != nil {
		log.WithError(err).Error("Failed to store asset")
		return "", err
	}
	log.Info("Asset stored")
	return uri, nil
}

func (s *sqliteStore) GetAsset(ctx context.Context, uri string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM assets WHERE uri = ?", uri).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("asset %s not found", uri)
		}
		return nil, err
	}
	return data, nil
}
