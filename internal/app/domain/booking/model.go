package booking

import "time"

// Booking is a reserved stay interval for a campsite. The interval is
// half-open: [StartDate, EndDate). A booking starting exactly when another
// ends does not overlap it.
//
// InventoryID points at the most recent inventory attached to the booking;
// it is maintained by the inventory service.
type Booking struct {
	ID            string     `json:"booking_id" db:"booking_id"`
	CampsiteID    string     `json:"campsite_id" db:"campsite_id"`
	UserID        string     `json:"user_id,omitempty" db:"user_id"`
	Email         string     `json:"email,omitempty" db:"email"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	StartDate     time.Time  `json:"start_date" db:"start_date"`
	EndDate       time.Time  `json:"end_date" db:"end_date"`
	ResName       string     `json:"res_name" db:"res_name"`
	BookingNumber string     `json:"booking_number" db:"booking_number"`
	InventoryID   string     `json:"inventory_id,omitempty" db:"inventory_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	DeleteDate    *time.Time `json:"delete_date,omitempty" db:"delete_date"`
}

// Deleted reports whether the booking has been soft-deleted.
func (b Booking) Deleted() bool { return b.DeleteDate != nil }

// Overlaps reports whether the booking's interval intersects [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}

// WithCampsite is a booking enriched with the campsite name for listings.
type WithCampsite struct {
	Booking
	CampsiteName string `json:"campsite_name,omitempty" db:"campsite_name"`
}
