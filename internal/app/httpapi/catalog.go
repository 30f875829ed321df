package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/services/campsites"
	"github.com/ombrage/campground/internal/app/services/events"
	"github.com/ombrage/campground/internal/app/services/products"
)

type campsiteRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type productRequest struct {
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price" validate:"gte=0"`
	Available bool    `json:"available"`
}

type eventRequest struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	StartDatetime time.Time `json:"start_datetime" validate:"required"`
	EndDatetime   time.Time `json:"end_datetime" validate:"required"`
	Location      string    `json:"location"`
}

// Campsites.

func (h *Handler) handleListCampsites(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Campsites.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateCampsite(w http.ResponseWriter, r *http.Request) {
	var req campsiteRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Campsites.Create(r.Context(), campsites.CreateParams{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetCampsite(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Campsites.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleUpdateCampsite(w http.ResponseWriter, r *http.Request) {
	var req campsiteRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.app.Campsites.Update(r.Context(), mux.Vars(r)["id"], campsites.CreateParams{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteCampsite(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Campsites.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Products.

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Products.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Products.Create(r.Context(), products.CreateParams{
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		Price:     req.Price,
		Available: req.Available,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.app.Products.Update(r.Context(), mux.Vars(r)["id"], products.CreateParams{
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		Price:     req.Price,
		Available: req.Available,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events.

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Events.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Events.Create(r.Context(), events.CreateParams{
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Location:      req.Location,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Events.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.app.Events.Update(r.Context(), mux.Vars(r)["id"], events.CreateParams{
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Location:      req.Location,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Events.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
