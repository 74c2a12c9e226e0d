package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
	apperrors "github.com/ruzaikr/screencloud-takehome/pkg/errors"
)

// InventoryRepository implements repository.InventoryRepository using
// PostgreSQL. All methods run on the caller's Querier so the row locks taken
// by GetForUpdate are held by the same transaction that later decrements.
type InventoryRepository struct{}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// GetForUpdate reads stock for the given products under FOR UPDATE row locks.
// Rows are locked in (warehouse_id, product_id) order so concurrent
// allocations acquire locks in the same order and cannot deadlock each other.
func (r *InventoryRepository) GetForUpdate(ctx context.Context, q database.Querier, productIDs []string) (domain.StockSnapshot, error) {
	query := `
		SELECT product_id, warehouse_id, quantity
		FROM inventory
		WHERE product_id = ANY($1)
		ORDER BY warehouse_id, product_id
		FOR UPDATE`

	ctx, end := database.TraceQuery(ctx, "GetInventoryForUpdate", query)
	rows, err := q.Query(ctx, query, productIDs)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("lock inventory rows: %w", err)
	}
	defer rows.Close()

	snapshot := make(domain.StockSnapshot)
	for rows.Next() {
		var productID, warehouseID string
		var quantity int
		if err := rows.Scan(&productID, &warehouseID, &quantity); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		if snapshot[warehouseID] == nil {
			snapshot[warehouseID] = make(map[string]int)
		}
		snapshot[warehouseID][productID] = quantity
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory rows: %w", err)
	}

	return snapshot, nil
}

// DecrementAndLog applies each decrement with a conditional update and appends
// one inventory log row per decrement. The update matching no row means the
// locked read and the decrement disagree about available stock, which cannot
// happen inside one transaction; it is surfaced as an internal error and
// aborts the whole write.
func (r *InventoryRepository) DecrementAndLog(ctx context.Context, q database.Querier, decrements []domain.StockDecrement, referenceID string) error {
	const updateQuery = `
		UPDATE inventory
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity >= $3
		RETURNING quantity`

	const logQuery = `
		INSERT INTO inventory_log (id, product_id, warehouse_id, quantity_change, resulting_quantity, change_type, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, d := range decrements {
		if d.Quantity <= 0 {
			return apperrors.Internal(fmt.Errorf("non-positive inventory decrement %d for product %s at warehouse %s: %w", d.Quantity, d.ProductID, d.WarehouseID, apperrors.ErrInternal))
		}

		ctx, end := database.TraceQuery(ctx, "DecrementInventory", updateQuery)
		var resulting int
		err := q.QueryRow(ctx, updateQuery, d.ProductID, d.WarehouseID, d.Quantity).Scan(&resulting)
		end(err)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.Internal(fmt.Errorf("inventory decrement matched no row for product %s at warehouse %s: %w", d.ProductID, d.WarehouseID, apperrors.ErrInternal))
			}
			return fmt.Errorf("decrement inventory: %w", err)
		}

		ctx, end = database.TraceQuery(ctx, "InsertInventoryLog", logQuery)
		_, err = q.Exec(ctx, logQuery,
			uuid.New().String(), d.ProductID, d.WarehouseID, -d.Quantity, resulting,
			domain.ChangeTypeOrderFulfillment, referenceID)
		end(err)
		if err != nil {
			return fmt.Errorf("insert inventory log: %w", err)
		}
	}

	return nil
}
