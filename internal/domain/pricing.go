package domain

// ResolveDiscountPct returns the discount percentage for a requested quantity:
// the highest threshold less than or equal to the quantity wins, or zero when
// no tier qualifies.
func ResolveDiscountPct(tiers []VolumeDiscount, quantity int) int {
	best := 0
	bestThreshold := -1
	for _, t := range tiers {
		if t.ThresholdQty <= quantity && t.ThresholdQty > bestThreshold {
			best = t.DiscountPct
			bestThreshold = t.ThresholdQty
		}
	}
	return best
}

// roundHalfUp computes value*pct/100 in cents, rounded half up.
func roundHalfUp(value int64, pct int) int64 {
	return (value*int64(pct) + 50) / 100
}

// PriceProducts prices every requested item under volume discounts. Any
// unknown product id fails the whole calculation; no partial results.
// Output order follows the request order.
func PriceProducts(items []RequestedItem, products map[string]Product, discounts map[string][]VolumeDiscount) ([]PricedProduct, error) {
	priced := make([]PricedProduct, 0, len(items))
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}

		pct := ResolveDiscountPct(discounts[item.ProductID], item.Quantity)
		subtotal := p.UnitPriceCents * int64(item.Quantity)
		discount := roundHalfUp(subtotal, pct)

		priced = append(priced, PricedProduct{
			ProductID:      p.ID,
			Name:           p.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: p.UnitPriceCents,
			WeightGrams:    p.WeightGrams,
			DiscountPct:    pct,
			SubtotalCents:  subtotal,
			DiscountCents:  discount,
			TotalCents:     subtotal - discount,
		})
	}
	return priced, nil
}
