package filesystem

import (
	"context"
	"testing"

	"printframe/core"
)

func setupTestStore(t *testing.T) *fsStore {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	design := &core.SavedDesign{
		ID:        "d1",
		OwnerID:   "cust-1",
		Name:      "flaming skull",
		ProductID: "tee-classic",
		Data:      []byte(`{"views":{}}`),
	}
	if err := store.Save(ctx, design); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "cust-1", "d1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "flaming skull" || got.ProductID != "tee-classic" {
		t.Errorf("Get() metadata = %q/%q, want saved values", got.Name, got.ProductID)
	}
	if string(got.Data) != `{"views":{}}` {
		t.Error("snapshot bytes differ after round trip")
	}
	if got.OwnerID != "cust-1" {
		t.Errorf("owner = %q, want cust-1", got.OwnerID)
	}
}

func TestGet_NotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.Get(context.Background(), "cust-1", "missing"); err == nil {
		t.Error("Get(missing) returned nil error")
	}
}

func TestGet_PathTraversalDenied(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.Get(context.Background(), "cust-1", "../../etc/passwd"); err == nil {
		t.Error("Get() followed a path outside the owner directory")
	}
}

func TestList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"d1", "d2"} {
		if err := store.Save(ctx, &core.SavedDesign{ID: id, OwnerID: "cust-1", Name: id, Data: []byte("blob")}); err != nil {
			t.Fatal(err)
		}
	}

	designs, err := store.List(ctx, "cust-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(designs) != 2 {
		t.Fatalf("List() returned %d designs, want 2", len(designs))
	}
	for _, d := range designs {
		if d.Data != nil {
			t.Errorf("List() included the data blob for %s", d.ID)
		}
	}

	empty, err := store.List(ctx, "nobody")
	if err != nil {
		t.Fatalf("List(unknown owner) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List(unknown owner) returned %d designs, want 0", len(empty))
	}
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &core.SavedDesign{ID: "d1", OwnerID: "cust-1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "cust-1", "d1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "cust-1", "d1"); err == nil {
		t.Error("design still retrievable after delete")
	}

	// Deleting a missing design is treated as success.
	if err := store.Delete(ctx, "cust-1", "d1"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestAssets_PutAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	uri, err := store.PutAsset(ctx, "cust-1", "skull.png", data)
	if err != nil {
		t.Fatalf("PutAsset() error = %v", err)
	}

	got, err := store.GetAsset(ctx, uri)
	if err != nil {
		t.Fatalf("GetAsset() error = %v", err)
	}
	if string(got) != string(data) {
		t.Error("asset bytes differ after round trip")
	}
}

func TestAssets_GetOutsideBaseDenied(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetAsset(context.Background(), "file:///etc/passwd"); err == nil {
		t.Error("GetAsset() read a path outside the asset directory")
	}
}
