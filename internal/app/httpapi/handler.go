// Package httpapi exposes the application over a JSON REST API.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app"
	"github.com/ombrage/campground/internal/app/metrics"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/internal/middleware"
	"github.com/ombrage/campground/pkg/logger"
)

// Handler serves the REST API.
type Handler struct {
	app      *app.Application
	authn    *middleware.Authenticator
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   *logger.Logger
}

// NewHandler creates the API handler.
func NewHandler(application *app.Application, authn *middleware.Authenticator, m *metrics.Metrics, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		app:      application,
		authn:    authn,
		metrics:  m,
		validate: validator.New(),
		logger:   log,
	}
}

// Router builds the full route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.instrument)

	// Open routes: account creation and both login flows.
	api.HandleFunc("/users", h.handleCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/login", h.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/guest/login", h.handleGuestLogin).Methods(http.MethodPost)

	staff := api.NewRoute().Subrouter()
	staff.Use(h.authn.RequireStaff)

	admin := func(fn http.HandlerFunc) http.Handler { return middleware.RequireAdmin(fn) }
	selfOrAdmin := func(fn http.HandlerFunc) http.Handler { return middleware.RequireSelfOrAdmin(fn) }

	// Bookings: admin only.
	staff.Handle("/bookings", admin(h.handleListBookings)).Methods(http.MethodGet)
	staff.Handle("/bookings", admin(h.handleCreateBooking)).Methods(http.MethodPost)
	staff.Handle("/bookings/{id}", admin(h.handleGetBooking)).Methods(http.MethodGet)
	staff.Handle("/bookings/{id}", admin(h.handleUpdateBooking)).Methods(http.MethodPut)
	staff.Handle("/bookings/{id}", admin(h.handleDeleteBooking)).Methods(http.MethodDelete)

	// Inventories: admin only.
	staff.Handle("/inventories", admin(h.handleListInventories)).Methods(http.MethodGet)
	staff.Handle("/inventories", admin(h.handleCreateInventory)).Methods(http.MethodPost)
	staff.Handle("/inventories/booking/{bookingID}", admin(h.handleListInventoriesByBooking)).Methods(http.MethodGet)
	staff.Handle("/inventories/{id}", admin(h.handleGetInventory)).Methods(http.MethodGet)
	staff.Handle("/inventories/{id}", admin(h.handleUpdateInventory)).Methods(http.MethodPut)
	staff.Handle("/inventories/{id}", admin(h.handleDeleteInventory)).Methods(http.MethodDelete)

	// Campsites, events, products: admin only.
	staff.Handle("/campsites", admin(h.handleListCampsites)).Methods(http.MethodGet)
	staff.Handle("/campsites", admin(h.handleCreateCampsite)).Methods(http.MethodPost)
	staff.Handle("/campsites/{id}", admin(h.handleGetCampsite)).Methods(http.MethodGet)
	staff.Handle("/campsites/{id}", admin(h.handleUpdateCampsite)).Methods(http.MethodPut)
	staff.Handle("/campsites/{id}", admin(h.handleDeleteCampsite)).Methods(http.MethodDelete)

	staff.Handle("/events", admin(h.handleListEvents)).Methods(http.MethodGet)
	staff.Handle("/events", admin(h.handleCreateEvent)).Methods(http.MethodPost)
	staff.Handle("/events/{id}", admin(h.handleGetEvent)).Methods(http.MethodGet)
	staff.Handle("/events/{id}", admin(h.handleUpdateEvent)).Methods(http.MethodPut)
	staff.Handle("/events/{id}", admin(h.handleDeleteEvent)).Methods(http.MethodDelete)

	staff.Handle("/products", admin(h.handleListProducts)).Methods(http.MethodGet)
	staff.Handle("/products", admin(h.handleCreateProduct)).Methods(http.MethodPost)
	staff.Handle("/products/{id}", admin(h.handleGetProduct)).Methods(http.MethodGet)
	staff.Handle("/products/{id}", admin(h.handleUpdateProduct)).Methods(http.MethodPut)
	staff.Handle("/products/{id}", admin(h.handleDeleteProduct)).Methods(http.MethodDelete)

	// Orders: listing and deletion admin, the rest any staff.
	staff.Handle("/orders", admin(h.handleListOrders)).Methods(http.MethodGet)
	staff.HandleFunc("/orders", h.handleCreateOrder).Methods(http.MethodPost)
	staff.HandleFunc("/orders/booking/{bookingID}", h.handleListOrdersByBooking).Methods(http.MethodGet)
	staff.HandleFunc("/orders/{id}", h.handleGetOrder).Methods(http.MethodGet)
	staff.HandleFunc("/orders/{id}", h.handleUpdateOrder).Methods(http.MethodPut)
	staff.Handle("/orders/{id}", admin(h.handleDeleteOrder)).Methods(http.MethodDelete)

	// Users: directory routes admin, profile routes self-or-admin.
	staff.Handle("/users", admin(h.handleListUsers)).Methods(http.MethodGet)
	staff.Handle("/users/email/{email}", admin(h.handleGetUserByEmail)).Methods(http.MethodGet)
	staff.Handle("/users/phone/{phone}", admin(h.handleGetUserByPhone)).Methods(http.MethodGet)
	staff.Handle("/users/{id}", selfOrAdmin(h.handleGetUser)).Methods(http.MethodGet)
	staff.Handle("/users/{id}", selfOrAdmin(h.handleUpdateUser)).Methods(http.MethodPut)
	staff.Handle("/users/{id}", admin(h.handleDeleteUser)).Methods(http.MethodDelete)
	staff.Handle("/users/{id}/role", admin(h.handleChangeUserRole)).Methods(http.MethodPatch)

	// Guest routes: scoped tokens, restricted to the token's own booking.
	guest := api.PathPrefix("/guest").Subrouter()
	guest.Use(h.authn.RequireGuest)
	guest.Handle("/bookings/{bookingID}", middleware.RequireOwnBooking(http.HandlerFunc(h.handleGuestGetBooking))).Methods(http.MethodGet)
	guest.Handle("/bookings/{bookingID}/inventories", middleware.RequireOwnBooking(http.HandlerFunc(h.handleGuestListInventories))).Methods(http.MethodGet)
	guest.Handle("/bookings/{bookingID}/orders", middleware.RequireOwnBooking(http.HandlerFunc(h.handleGuestListOrders))).Methods(http.MethodGet)
	guest.Handle("/bookings/{bookingID}/orders", middleware.RequireOwnBooking(http.HandlerFunc(h.handleGuestCreateOrder))).Methods(http.MethodPost)
	guest.HandleFunc("/events", h.handleGuestListEvents).Methods(http.MethodGet)
	guest.HandleFunc("/products", h.handleGuestListProducts).Methods(http.MethodGet)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		h.metrics.Instrument(route, next).ServeHTTP(w, r)
	})
}

// decodeJSON parses and validates a request body. Unknown fields are
// rejected.
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body: " + err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	se := apperrors.GetServiceError(err)
	if se == nil {
		se = apperrors.Internal(err)
	}
	if se.HTTPStatus >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed")
	}
	writeJSON(w, se.HTTPStatus, map[string]any{
		"error": map[string]any{
			"code":    se.Code,
			"message": se.Message,
		},
	})
}
