package event

import "time"

// Event is a scheduled campground activity.
type Event struct {
	ID            string    `json:"event_id" db:"event_id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description,omitempty" db:"description"`
	StartDatetime time.Time `json:"start_datetime" db:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime" db:"end_datetime"`
	Location      string    `json:"location,omitempty" db:"location"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
