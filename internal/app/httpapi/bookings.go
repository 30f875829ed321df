package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/services/bookings"
)

type bookingRequest struct {
	CampsiteID    string    `json:"campsite_id" validate:"required"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email" validate:"omitempty,email"`
	Phone         string    `json:"phone"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	ResName       string    `json:"res_name" validate:"required"`
	BookingNumber string    `json:"booking_number" validate:"required,max=10"`
}

func (h *Handler) handleListBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Bookings.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.app.Bookings.Create(r.Context(), bookings.CreateParams{
		CampsiteID:    req.CampsiteID,
		UserID:        req.UserID,
		Email:         req.Email,
		Phone:         req.Phone,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ResName:       req.ResName,
		BookingNumber: req.BookingNumber,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	got, err := h.app.Bookings.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *Handler) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.app.Bookings.Update(r.Context(), mux.Vars(r)["id"], bookings.UpdateParams{
		CampsiteID:    req.CampsiteID,
		UserID:        req.UserID,
		Email:         req.Email,
		Phone:         req.Phone,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ResName:       req.ResName,
		BookingNumber: req.BookingNumber,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if _, err := h.app.Bookings.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
