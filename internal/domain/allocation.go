package domain

// AllocationLine assigns part of a requested product to one warehouse. Not
// yet committed; the order pipeline turns accepted lines into order lines and
// inventory decrements.
type AllocationLine struct {
	ProductID          string `json:"product_id"`
	WarehouseID        string `json:"warehouse_id"`
	Quantity           int    `json:"quantity"`
	UnitPriceCents     int64  `json:"unit_price_cents"`
	DiscountPct        int    `json:"discount_pct"`
	WeightGrams        int    `json:"weight_grams"`
	ShippingCentsPerKg int64  `json:"shipping_cents_per_kg"`
}

// ShippingCents returns the rounded-up shipping cost for this line.
func (l AllocationLine) ShippingCents() int64 {
	return LineShippingCents(l.Quantity, l.WeightGrams, l.ShippingCentsPerKg)
}

// Allocate greedily assigns each priced product to warehouses in rank order.
// At each warehouse the available quantity is the physical stock minus
// reservation holds, floored at zero. Products are allocated independently;
// the first product that cannot be fully satisfied fails the whole
// allocation with InsufficientInventoryError.
//
// Given identical snapshots the result is deterministic: warehouse order is
// exactly the ranker's sort order and no warehouse is revisited for the same
// product.
func Allocate(priced []PricedProduct, ranked []RankedWarehouse, stock, reserved StockSnapshot) ([]AllocationLine, error) {
	var lines []AllocationLine

	for _, p := range priced {
		remaining := p.Quantity

		for _, w := range ranked {
			if remaining == 0 {
				break
			}

			available := stock.Quantity(w.ID, p.ProductID) - reserved.Quantity(w.ID, p.ProductID)
			if available <= 0 {
				continue
			}

			take := remaining
			if available < take {
				take = available
			}

			lines = append(lines, AllocationLine{
				ProductID:          p.ProductID,
				WarehouseID:        w.ID,
				Quantity:           take,
				UnitPriceCents:     p.UnitPriceCents,
				DiscountPct:        p.DiscountPct,
				WeightGrams:        p.WeightGrams,
				ShippingCentsPerKg: w.ShippingCentsPerKg,
			})
			remaining -= take
		}

		if remaining > 0 {
			return nil, &InsufficientInventoryError{
				ProductID:   p.ProductID,
				Requested:   p.Quantity,
				Allocatable: p.Quantity - remaining,
			}
		}
	}

	return lines, nil
}

// TotalShippingCents sums per-line shipping with per-line ceiling rounding.
func TotalShippingCents(lines []AllocationLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.ShippingCents()
	}
	return total
}

// Decrements converts allocation lines into the inventory decrements to apply
// at commit time.
func Decrements(lines []AllocationLine) []StockDecrement {
	out := make([]StockDecrement, 0, len(lines))
	for _, l := range lines {
		out = append(out, StockDecrement{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
		})
	}
	return out
}
