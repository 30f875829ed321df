package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/services/inventories"
	apperrors "github.com/ombrage/campground/internal/errors"
)

type inventoryItemRequest struct {
	Name      string `json:"name" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Condition string `json:"condition"`
}

type inventoryCreateRequest struct {
	CampsiteID string                 `json:"campsite_id"`
	BookingID  string                 `json:"booking_id"`
	Type       string                 `json:"type" validate:"required"`
	Comment    string                 `json:"comment"`
	Items      []inventoryItemRequest `json:"items" validate:"dive"`
}

// inventoryUpdateRequest distinguishes an absent booking_id (leave the
// attachment as is) from an explicit null (detach).
type inventoryUpdateRequest struct {
	CampsiteID string                  `json:"campsite_id"`
	BookingID  json.RawMessage         `json:"booking_id"`
	Type       string                  `json:"type" validate:"required"`
	Comment    string                  `json:"comment"`
	Items      *[]inventoryItemRequest `json:"items" validate:"omitempty,dive"`
}

func toInventoryItems(reqs []inventoryItemRequest) []inventory.Item {
	items := make([]inventory.Item, 0, len(reqs))
	for _, it := range reqs {
		items = append(items, inventory.Item{Name: it.Name, Quantity: it.Quantity, Condition: it.Condition})
	}
	return items
}

func (h *Handler) handleListInventories(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Inventories.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListInventoriesByBooking(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Inventories.ListByBooking(r.Context(), mux.Vars(r)["bookingID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryCreateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Inventories.Create(r.Context(), inventories.CreateParams{
		CampsiteID: req.CampsiteID,
		BookingID:  req.BookingID,
		Type:       inventory.Type(req.Type),
		Comment:    req.Comment,
		Items:      toInventoryItems(req.Items),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Inventories.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleUpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryUpdateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	params := inventories.UpdateParams{
		CampsiteID: req.CampsiteID,
		Type:       inventory.Type(req.Type),
		Comment:    req.Comment,
	}
	if len(req.BookingID) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.BookingID), []byte("null")) {
			params.DetachBooking = true
		} else {
			var id string
			if err := json.Unmarshal(req.BookingID, &id); err != nil {
				h.writeError(w, apperrors.Validation("booking_id must be a string or null"))
				return
			}
			params.BookingID = &id
		}
	}
	if req.Items != nil {
		params.ReplaceItems = true
		params.Items = toInventoryItems(*req.Items)
	}

	updated, err := h.app.Inventories.Update(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Inventories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
