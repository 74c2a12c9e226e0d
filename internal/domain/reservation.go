package domain

import "time"

// Reservation status constants.
const (
	ReservationStatusActive   = "ACTIVE"
	ReservationStatusExpired  = "EXPIRED"
	ReservationStatusConsumed = "CONSUMED"
	ReservationStatusReleased = "RELEASED"
)

// Reservation is a hold on stock. Only ACTIVE, unexpired reservations count
// against the quantity available to new orders.
type Reservation struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationLine holds a quantity of one product at one warehouse.
type ReservationLine struct {
	ID            string `json:"id"`
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	WarehouseID   string `json:"warehouse_id"`
	Quantity      int    `json:"quantity"`
}

// IsHolding reports whether the reservation currently counts against
// available stock.
func (r *Reservation) IsHolding(now time.Time) bool {
	return r.Status == ReservationStatusActive && now.Before(r.ExpiresAt)
}
