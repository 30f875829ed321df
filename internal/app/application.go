// Package app wires the stores and services into one application object.
package app

import (
	"github.com/ombrage/campground/internal/app/services/bookings"
	"github.com/ombrage/campground/internal/app/services/campsites"
	"github.com/ombrage/campground/internal/app/services/events"
	"github.com/ombrage/campground/internal/app/services/guestauth"
	"github.com/ombrage/campground/internal/app/services/inventories"
	"github.com/ombrage/campground/internal/app/services/orders"
	"github.com/ombrage/campground/internal/app/services/products"
	"github.com/ombrage/campground/internal/app/services/users"
	"github.com/ombrage/campground/internal/app/storage"
	"github.com/ombrage/campground/internal/app/storage/memory"
	"github.com/ombrage/campground/internal/auth"
	"github.com/ombrage/campground/pkg/logger"
)

// Stores groups the per-entity storage interfaces. Nil fields fall back to
// a shared in-memory store, which keeps tests and local runs simple.
type Stores struct {
	Users       storage.UserStore
	Campsites   storage.CampsiteStore
	Bookings    storage.BookingStore
	Inventories storage.InventoryStore
	Orders      storage.OrderStore
	Products    storage.ProductStore
	Events      storage.EventStore
}

func (s Stores) withDefaults() Stores {
	var fallback *memory.Store
	mem := func() *memory.Store {
		if fallback == nil {
			fallback = memory.New()
		}
		return fallback
	}
	if s.Users == nil {
		s.Users = mem()
	}
	if s.Campsites == nil {
		s.Campsites = mem()
	}
	if s.Bookings == nil {
		s.Bookings = mem()
	}
	if s.Inventories == nil {
		s.Inventories = mem()
	}
	if s.Orders == nil {
		s.Orders = mem()
	}
	if s.Products == nil {
		s.Products = mem()
	}
	if s.Events == nil {
		s.Events = mem()
	}
	return s
}

// Options carries the tunable service behaviors.
type Options struct {
	Bookings    bookings.Options
	Inventories inventories.Options
}

// Application owns all domain services.
type Application struct {
	Bookings    *bookings.Service
	Inventories *inventories.Service
	Orders      *orders.Service
	Users       *users.Service
	GuestAuth   *guestauth.Service
	Campsites   *campsites.Service
	Products    *products.Service
	Events      *events.Service

	Stores Stores
	Tokens *auth.TokenIssuer
	Logger *logger.Logger
}

// New builds the application from its stores and token issuer.
func New(stores Stores, tokens *auth.TokenIssuer, opts Options, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}
	stores = stores.withDefaults()

	return &Application{
		Bookings:    bookings.New(stores.Bookings, stores.Campsites, opts.Bookings, log.WithField("service", "bookings")),
		Inventories: inventories.New(stores.Inventories, stores.Bookings, stores.Campsites, opts.Inventories, log.WithField("service", "inventories")),
		Orders:      orders.New(stores.Orders, stores.Bookings, stores.Products, log.WithField("service", "orders")),
		Users:       users.New(stores.Users, tokens, log.WithField("service", "users")),
		GuestAuth:   guestauth.New(stores.Bookings, tokens, log.WithField("service", "guestauth")),
		Campsites:   campsites.New(stores.Campsites, log.WithField("service", "campsites")),
		Products:    products.New(stores.Products, log.WithField("service", "products")),
		Events:      events.New(stores.Events, log.WithField("service", "events")),
		Stores:      stores,
		Tokens:      tokens,
		Logger:      log,
	}
}
