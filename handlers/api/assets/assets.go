package assets

import (
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"printframe/middleware"
	"printframe/stores"
)

// maxUploadBytes caps artwork uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// HandleUpload stores raw artwork bytes and returns the opaque URI a layer
// can use as its src.
func HandleUpload(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())

		name := r.URL.Query().Get("name")
		if name == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Asset name is required"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"asset_name": name,
			}).Error("Failed to read upload body")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to read upload"})
			return
		}
		defer r.Body.Close()

		if len(body) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Upload is empty"})
			return
		}
		if len(body) > maxUploadBytes {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, map[string]string{"error": "Upload exceeds size limit"})
			return
		}

		uri, err := store.PutAsset(r.Context(), ownerID, name, body)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"owner_id":   ownerID,
				"asset_name": name,
			}).Error("Failed to store asset")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to store asset"})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"uri": uri})
	}
}

// HandleGet resolves an asset URI minted by HandleUpload back to its bytes,
// so the renderer can fetch layer artwork through the API.
func HandleGet(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.Query().Get("uri")
		if uri == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Asset uri is required"})
			return
		}

		data, err := store.GetAsset(r.Context(), uri)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":     err,
				"asset_uri": uri,
			}).Warn("Failed to get asset")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Asset not found"})
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(data)
	}
}
