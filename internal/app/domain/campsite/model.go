package campsite

import "time"

// Campsite is a rentable unit (chalet, tipi, bungalow, ...) referenced by
// bookings and inventories.
type Campsite struct {
	ID          string    `json:"campsite_id" db:"campsite_id"`
	Name        string    `json:"name" db:"name"`
	Type        string    `json:"type,omitempty" db:"type"`
	Description string    `json:"description,omitempty" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
