package designs

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"printframe/core"
	"printframe/middleware"
	"printframe/stores"
)

func HandleList(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())

		designs, err := store.List(r.Context(), ownerID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":    err,
				"owner_id": ownerID,
			}).Error("Failed to list designs")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to list designs"})
			return
		}

		// If designs is nil (e.g., owner has no designs), return an empty slice instead of null.
		if designs == nil {
			designs = []*core.SavedDesign{}
		}

		render.JSON(w, r, designs)
	}
}

func HandleGet(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())

		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Design id is required"})
			return
		}

		design, err := store.Get(r.Context(), ownerID, id)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"owner_id":  ownerID,
				"design_id": id,
			}).Warn("Failed to get design")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Design not found"})
			return
		}

		// The snapshot is returned as raw bytes.
		w.Header().Set("Content-Type", "application/json")
		w.Write(design.Data)
	}
}

func HandleSave(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())

		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Design id is required"})
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"design_id": id,
			}).Error("Failed to read request body")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to read request body"})
			return
		}
		defer r.Body.Close()

		// Pull display metadata out of the snapshot when present; the id is
		// the fallback name.
		var meta struct {
			ProductID string `json:"productId"`
			Name      string `json:"name"`
			Thumbnail string `json:"thumbnail"`
		}
		name := id
		var productID, thumbnail string
		if err := json.Unmarshal(body, &meta); err == nil {
			if meta.Name != "" {
				name = meta.Name
			}
			productID = meta.ProductID
			thumbnail = meta.Thumbnail
		}

		design := &core.SavedDesign{
			ID:        id,
			OwnerID:   ownerID,
			Name:      name,
			ProductID: productID,
			Thumbnail: thumbnail,
			Data:      body,
		}

		if err := store.Save(r.Context(), design); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"owner_id":  ownerID,
				"design_id": id,
			}).Error("Failed to save design")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to save design"})
			return
		}

		render.Status(r, http.StatusOK)
	}
}

func HandleDelete(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())

		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Design id is required"})
			return
		}

		if err := store.Delete(r.Context(), ownerID, id); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"owner_id":  ownerID,
				"design_id": id,
			}).Error("Failed to delete design")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to delete design"})
			return
		}

		render.Status(r, http.StatusOK)
	}
}
