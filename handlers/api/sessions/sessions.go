package sessions

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"printframe/core"
	"printframe/design"
	"printframe/design/session"
	"printframe/fonts"
	"printframe/middleware"
)

// statusFor maps a design-model failure to an HTTP status. Every handler in
// this package funnels errors through here so the mapping stays in one place.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrDesignNotFound),
		errors.Is(err, core.ErrLayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateLayerID), errors.Is(err, core.ErrLayerNotInActiveView):
		return http.StatusConflict
	case errors.Is(err, core.ErrLayerLocked):
		return http.StatusLocked
	case errors.Is(err, core.ErrInvalidFieldForVariant):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidLayerParams), errors.Is(err, core.ErrUnknownTextStyle):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, statusFor(err))
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

type (
	createRequest struct {
		ProductID    string `json:"productId"`
		ProductColor string `json:"productColor"`
		DesignID     string `json:"designId,omitempty"` // hydrate from a saved design
	}

	sessionState struct {
		ID         string            `json:"id"`
		ActiveView core.View         `json:"activeView"`
		Selected   string            `json:"selected,omitempty"`
		Snapshot   *session.Snapshot `json:"snapshot"`
	}
)

func stateOf(id string, e *session.Editor) *sessionState {
	return &sessionState{
		ID:         id,
		ActiveView: e.ActiveView(),
		Selected:   e.Selected(),
		Snapshot:   e.Snapshot(),
	}
}

func HandleCreate(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		var (
			h   *session.Handle
			err error
		)
		if req.DesignID != "" {
			ownerID := middleware.OwnerFromContext(r.Context())
			h, err = mgr.Hydrate(r.Context(), ownerID, req.DesignID)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"error":     err,
					"owner_id":  ownerID,
					"design_id": req.DesignID,
				}).Warn("Failed to hydrate session")
				renderError(w, r, err)
				return
			}
		} else {
			h = mgr.Create(req.ProductID, req.ProductColor)
		}

		var state *sessionState
		h.With(func(e *session.Editor) error {
			state = stateOf(h.ID, e)
			return nil
		})
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, state)
	}
}

func HandleGet(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var state *sessionState
		h.With(func(e *session.Editor) error {
			state = stateOf(h.ID, e)
			return nil
		})
		render.JSON(w, r, state)
	}
}

func HandleClose(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr.Close(chi.URLParam(r, "id"))
		render.Status(r, http.StatusOK)
	}
}

func HandleSubmit(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		ownerID := middleware.OwnerFromContext(r.Context())
		designID, err := mgr.Submit(r.Context(), chi.URLParam(r, "id"), ownerID, req.Name)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"session_id": chi.URLParam(r, "id"),
				"owner_id":   ownerID,
			}).Error("Failed to submit design")
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"designId": designID})
	}
}

// ensureFont makes the family available before the layer referencing it is
// committed, so the renderer never draws a text layer with a missing font.
func ensureFont(r *http.Request, loader *fonts.Loader, family string) error {
	if err := loader.Ensure(r.Context(), family); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidLayerParams, err)
	}
	return nil
}

func HandleAddLayer(mgr *session.Manager, fontLoader *fonts.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var req struct {
			Kind   string            `json:"kind"`
			Params design.InitParams `json:"params"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		kind, err := core.ParseLayerKind(req.Kind)
		if err != nil {
			renderError(w, r, err)
			return
		}
		if kind == core.KindText {
			family := req.Params.FontFamily
			if family == "" {
				family = design.DefaultFontFamily
			}
			if err := ensureFont(r, fontLoader, family); err != nil {
				renderError(w, r, err)
				return
			}
		}

		var layer *core.Layer
		if err := h.With(func(e *session.Editor) error {
			var addErr error
			layer, addErr = e.AddLayer(kind, req.Params)
			return addErr
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, layer)
	}
}

func HandleUpdateLayer(mgr *session.Manager, fontLoader *fonts.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var patch core.LayerPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		if patch.Text != nil && patch.Text.FontFamily != nil {
			if err := ensureFont(r, fontLoader, *patch.Text.FontFamily); err != nil {
				renderError(w, r, err)
				return
			}
		}

		layerID := chi.URLParam(r, "layerID")
		var layer *core.Layer
		if err := h.With(func(e *session.Editor) error {
			var updErr error
			layer, updErr = e.UpdateLayer(layerID, patch)
			return updErr
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.JSON(w, r, layer)
	}
}

func HandleDeleteLayer(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		layerID := chi.URLParam(r, "layerID")
		if err := h.With(func(e *session.Editor) error {
			return e.DeleteLayer(layerID)
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
	}
}

func HandleReorderLayer(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var req struct {
			Direction string `json:"direction"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		dir, err := design.ParseReorderDirection(req.Direction)
		if err != nil {
			renderError(w, r, err)
			return
		}

		layerID := chi.URLParam(r, "layerID")
		if err := h.With(func(e *session.Editor) error {
			return e.Reorder(layerID, dir)
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
	}
}

func HandleSetZIndex(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var req struct {
			ZIndex int `json:"zIndex"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		layerID := chi.URLParam(r, "layerID")
		if err := h.With(func(e *session.Editor) error {
			return e.SetZIndex(layerID, req.ZIndex)
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
	}
}

func HandleSetActiveView(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var req struct {
			View string `json:"view"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		view, err := core.ParseView(req.View)
		if err != nil {
			renderError(w, r, err)
			return
		}

		var state *sessionState
		if err := h.With(func(e *session.Editor) error {
			if err := e.SetActiveView(view); err != nil {
				return err
			}
			state = stateOf(h.ID, e)
			return nil
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.JSON(w, r, state)
	}
}

func HandleSelect(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var req struct {
			LayerID string `json:"layerId"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		if err := h.With(func(e *session.Editor) error {
			return e.Select(req.LayerID)
		}); err != nil {
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
	}
}

func HandleClearSelection(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		h.With(func(e *session.Editor) error {
			e.ClearSelection()
			return nil
		})
		render.Status(r, http.StatusOK)
	}
}

func HandleListLayers(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		view, err := core.ParseView(chi.URLParam(r, "view"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		var layers []*core.Layer
		h.With(func(e *session.Editor) error {
			layers = e.ListLayers(view)
			return nil
		})
		render.JSON(w, r, layers)
	}
}

// HandleResolveTextStyle lets the renderer fetch the effect parameters for a
// declarative text style. Pure lookup, no session involved.
func HandleResolveTextStyle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		style := core.TextStyle(chi.URLParam(r, "style"))
		color := r.URL.Query().Get("color")
		if color == "" {
			color = "#000000"
		}

		effects, err := design.ResolveTextStyle(style, color)
		if err != nil {
			renderError(w, r, err)
			return
		}
		render.JSON(w, r, effects)
	}
}
