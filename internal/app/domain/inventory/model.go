package inventory

import "time"

// Type is the kind of check record an inventory represents.
type Type string

const (
	TypeArrival   Type = "arrival"
	TypeDeparture Type = "departure"
)

// Valid reports whether t is a known inventory type.
func (t Type) Valid() bool { return t == TypeArrival || t == TypeDeparture }

// Inventory is an arrival or departure check record for a campsite,
// optionally linked to a booking. Consecutive inventories for one campsite
// must alternate between arrival and departure.
type Inventory struct {
	ID         string    `json:"inventory_id" db:"inventory_id"`
	CampsiteID string    `json:"campsite_id" db:"campsite_id"`
	BookingID  string    `json:"booking_id,omitempty" db:"booking_id"`
	Type       Type      `json:"type" db:"type"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Items      []Item    `json:"items,omitempty" db:"-"`
}

// Item is a single counted entry on an inventory.
type Item struct {
	ID          string `json:"inventory_item_id" db:"inventory_item_id"`
	InventoryID string `json:"inventory_id" db:"inventory_id"`
	Name        string `json:"name" db:"name"`
	Quantity    int    `json:"quantity" db:"quantity"`
	Condition   string `json:"condition,omitempty" db:"condition"`
}

// BookingRef is the minimal booking information returned on listings.
type BookingRef struct {
	BookingID string `json:"booking_id" db:"booking_id"`
	ResName   string `json:"res_name,omitempty" db:"res_name"`
}

// WithMeta is an inventory enriched with its booking reference, campsite name
// and item count for listings.
type WithMeta struct {
	Inventory
	Booking      *BookingRef `json:"booking,omitempty" db:"-"`
	CampsiteName string      `json:"campsite_name,omitempty" db:"campsite_name"`
	ItemsCount   int         `json:"items_count" db:"items_count"`
}
