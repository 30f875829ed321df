package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/domain/order"
	"github.com/ombrage/campground/internal/app/services/orders"
)

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type orderCreateRequest struct {
	BookingID string             `json:"booking_id" validate:"required"`
	Items     []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderUpdateRequest struct {
	Status string              `json:"status"`
	Items  *[]orderItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

func toOrderItems(reqs []orderItemRequest) []orders.ItemParams {
	items := make([]orders.ItemParams, 0, len(reqs))
	for _, it := range reqs {
		items = append(items, orders.ItemParams{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Orders.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListOrdersByBooking(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Orders.ListByBooking(r.Context(), mux.Vars(r)["bookingID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderCreateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Orders.Create(r.Context(), orders.CreateParams{
		BookingID: req.BookingID,
		Items:     toOrderItems(req.Items),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderUpdateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	params := orders.UpdateParams{Status: order.Status(req.Status)}
	if req.Items != nil {
		params.Items = toOrderItems(*req.Items)
	}
	updated, err := h.app.Orders.Update(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Orders.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
