package domain

import "time"

// Order is the committed result of a successful allocation. Created exactly
// once, together with its lines and the matching inventory log rows, and
// never mutated afterward.
type Order struct {
	ID             string      `json:"id"`
	SubtotalCents  int64       `json:"subtotal_cents"`
	DiscountCents  int64       `json:"discount_cents"`
	ShippingCents  int64       `json:"shipping_cents"`
	TotalCents     int64       `json:"total_cents"`
	DestinationLat float64     `json:"destination_lat"`
	DestinationLng float64     `json:"destination_lng"`
	Lines          []OrderLine `json:"lines"`
	CreatedAt      time.Time   `json:"created_at"`
}

// OrderLine pins one allocation to a (product, warehouse) pair with the unit
// price and discount percentage as applied at order time. Denormalized so
// later price changes never retroactively alter past orders.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	WarehouseID    string `json:"warehouse_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	DiscountPct    int    `json:"discount_pct"`
	WeightGrams    int    `json:"weight_grams"`
	ShippingCents  int64  `json:"shipping_cents"`
}

// OrderConfirmation is returned to the caller after a successful commit.
// TotalPriceCents is the pre-discount product total; the discount and
// shipping amounts are reported separately.
type OrderConfirmation struct {
	OrderID           string `json:"order_id"`
	TotalPriceCents   int64  `json:"total_price_cents"`
	DiscountCents     int64  `json:"discount_cents"`
	ShippingCostCents int64  `json:"shipping_cost_cents"`
}

// FeasibilityResult reports whether an order request could be fulfilled right
// now without committing anything. Totals are populated even when the request
// is rejected by the shipping ceiling, so callers can show the economics.
type FeasibilityResult struct {
	IsValid           bool   `json:"is_valid"`
	TotalPriceCents   int64  `json:"total_price_cents"`
	DiscountCents     int64  `json:"discount_cents"`
	ShippingCostCents int64  `json:"shipping_cost_cents"`
	Message           string `json:"message,omitempty"`
}
