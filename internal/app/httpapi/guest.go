package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/services/orders"
)

type guestLoginRequest struct {
	ResName       string `json:"res_name" validate:"required"`
	BookingNumber string `json:"booking_number" validate:"required"`
}

type guestLoginResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	BookingID  string    `json:"booking_id"`
	CampsiteID string    `json:"campsite_id"`
}

func (h *Handler) handleGuestLogin(w http.ResponseWriter, r *http.Request) {
	var req guestLoginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.app.GuestAuth.Login(r.Context(), req.ResName, req.BookingNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guestLoginResponse{
		Token:      result.Token,
		ExpiresAt:  result.ExpiresAt,
		BookingID:  result.BookingID,
		CampsiteID: result.CampsiteID,
	})
}

func (h *Handler) handleGuestGetBooking(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Bookings.Get(r.Context(), mux.Vars(r)["bookingID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleGuestListInventories(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Inventories.ListByBooking(r.Context(), mux.Vars(r)["bookingID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGuestListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Orders.ListByBooking(r.Context(), mux.Vars(r)["bookingID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type guestOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// handleGuestCreateOrder places an order against the guest's own booking.
// The booking id comes from the path, already checked against the token.
func (h *Handler) handleGuestCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req guestOrderRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Orders.Create(r.Context(), orders.CreateParams{
		BookingID: mux.Vars(r)["bookingID"],
		Items:     toOrderItems(req.Items),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGuestListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Events.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGuestListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Products.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
