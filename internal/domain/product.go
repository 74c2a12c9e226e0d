package domain

import "time"

// Product is catalog reference data. Unit price and weight are immutable once
// priced into an order line; later catalog changes never alter past orders.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	WeightGrams    int       `json:"weight_grams"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VolumeDiscount is a tiered discount for a product: orders of at least
// ThresholdQty units receive DiscountPct off that product's line total.
// At most one tier exists per (product, threshold).
type VolumeDiscount struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	ThresholdQty int    `json:"threshold_qty"`
	DiscountPct  int    `json:"discount_pct"`
}

// RequestedItem is one line of an order or feasibility request.
type RequestedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CatalogProduct is a product together with its volume discount tiers, as
// served by the catalog listing.
type CatalogProduct struct {
	Product
	Discounts []VolumeDiscount `json:"discounts"`
}

// PricedProduct is the cost calculator's output for one requested product.
type PricedProduct struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	WeightGrams    int    `json:"weight_grams"`
	DiscountPct    int    `json:"discount_pct"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	DiscountCents  int64  `json:"discount_cents"`
	TotalCents     int64  `json:"total_cents"`
}
