package domain

import "time"

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// Coordinate is a destination point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RankedWarehouse is a warehouse annotated with the shipping cost per kilogram
// to a specific destination.
type RankedWarehouse struct {
	Warehouse
	ShippingCentsPerKg int64 `json:"shipping_cents_per_kg"`
}
