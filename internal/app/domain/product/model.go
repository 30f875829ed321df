package product

import "time"

// Product is an orderable item from the campground shop.
type Product struct {
	ID        string    `json:"product_id" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category,omitempty" db:"category"`
	Unit      string    `json:"unit" db:"unit"`
	Price     float64   `json:"price" db:"price"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
