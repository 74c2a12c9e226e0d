package postgres

import (
	"context"
	"fmt"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
)

// WarehouseRepository implements repository.WarehouseRepository using PostgreSQL.
type WarehouseRepository struct {
	pool database.DBTX
}

// NewWarehouseRepository creates a new PostgreSQL-backed warehouse repository.
func NewWarehouseRepository(pool database.DBTX) *WarehouseRepository {
	return &WarehouseRepository{pool: pool}
}

// List returns all warehouses in insertion order. The ranker relies on this
// order to break shipping-cost ties deterministically.
func (r *WarehouseRepository) List(ctx context.Context) ([]domain.Warehouse, error) {
	query := `
		SELECT id, name, latitude, longitude, created_at
		FROM warehouses
		ORDER BY created_at, id`

	ctx, end := database.TraceQuery(ctx, "ListWarehouses", query)
	rows, err := r.pool.Query(ctx, query)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []domain.Warehouse
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Latitude, &w.Longitude, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse row: %w", err)
		}
		warehouses = append(warehouses, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouse rows: %w", err)
	}

	if warehouses == nil {
		warehouses = []domain.Warehouse{}
	}

	return warehouses, nil
}
