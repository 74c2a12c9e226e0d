package postgres

import (
	"context"
	"fmt"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
)

// ReservationRepository implements repository.ReservationRepository using
// PostgreSQL.
type ReservationRepository struct{}

// NewReservationRepository creates a new PostgreSQL-backed reservation
// repository.
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

// GetReservedQuantities sums held quantities across ACTIVE, unexpired
// reservations for the given products. The read is deliberately unlocked;
// reservations are created and expired by other actors and a hold appearing
// mid-allocation is an accepted window.
func (r *ReservationRepository) GetReservedQuantities(ctx context.Context, q database.Querier, productIDs []string) (domain.StockSnapshot, error) {
	query := `
		SELECT rl.product_id, rl.warehouse_id, SUM(rl.quantity)::int
		FROM reservation_lines rl
		JOIN reservations res ON res.id = rl.reservation_id
		WHERE rl.product_id = ANY($1)
		  AND res.status = 'ACTIVE'
		  AND res.expires_at > NOW()
		GROUP BY rl.product_id, rl.warehouse_id`

	ctx, end := database.TraceQuery(ctx, "GetReservedQuantities", query)
	rows, err := q.Query(ctx, query, productIDs)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("get reserved quantities: %w", err)
	}
	defer rows.Close()

	snapshot := make(domain.StockSnapshot)
	for rows.Next() {
		var productID, warehouseID string
		var quantity int
		if err := rows.Scan(&productID, &warehouseID, &quantity); err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		if snapshot[warehouseID] == nil {
			snapshot[warehouseID] = make(map[string]int)
		}
		snapshot[warehouseID][productID] = quantity
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return snapshot, nil
}
