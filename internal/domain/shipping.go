package domain

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(a, b Coordinate) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// RankWarehouses computes the shipping cost per kilogram from every warehouse
// to the destination and returns them sorted cheapest first. The sort is
// stable: ties keep the warehouses' insertion order. A zero distance costs
// zero.
func RankWarehouses(warehouses []Warehouse, dest Coordinate, rateCentsPerKgPerKm int64) []RankedWarehouse {
	ranked := make([]RankedWarehouse, 0, len(warehouses))
	for _, w := range warehouses {
		dist := HaversineKm(Coordinate{Latitude: w.Latitude, Longitude: w.Longitude}, dest)
		cost := int64(math.Round(dist * float64(rateCentsPerKgPerKm)))
		ranked = append(ranked, RankedWarehouse{Warehouse: w, ShippingCentsPerKg: cost})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ShippingCentsPerKg < ranked[j].ShippingCentsPerKg
	})
	return ranked
}

// LineShippingCents returns the shipping cost of moving quantity units of
// weightGrams each at centsPerKg. Rounds up so shipping is never
// under-charged.
func LineShippingCents(quantity, weightGrams int, centsPerKg int64) int64 {
	grams := int64(quantity) * int64(weightGrams)
	return (grams*centsPerKg + 999) / 1000
}

// MaxAllowedShippingCents returns the shipping ceiling: maxPct percent of the
// discounted order total, rounded down. Non-positive totals allow no shipping
// spend at all.
func MaxAllowedShippingCents(discountedTotalCents int64, maxPct int) int64 {
	if discountedTotalCents <= 0 {
		return 0
	}
	return discountedTotalCents * int64(maxPct) / 100
}

// IsShippingCostValid reports whether a shipping cost is within the ceiling
// for the given order economics. Monotonic in cost: raising the cost can only
// flip the result from valid to invalid.
func IsShippingCostValid(shippingCents, totalPriceCents, discountCents int64, maxPct int) bool {
	return shippingCents <= MaxAllowedShippingCents(totalPriceCents-discountCents, maxPct)
}
