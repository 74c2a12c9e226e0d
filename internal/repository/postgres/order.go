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

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct{}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create inserts the order header and all lines on the caller's transaction.
// Lines get fresh ids; the order id must already be set so the caller can use
// it as the inventory log reference before committing.
func (r *OrderRepository) Create(ctx context.Context, q database.Querier, order *domain.Order) error {
	const orderQuery = `
		INSERT INTO orders (id, subtotal_cents, discount_cents, shipping_cents, total_cents, destination_lat, destination_lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	const lineQuery = `
		INSERT INTO order_lines (id, order_id, product_id, warehouse_id, quantity, unit_price_cents, discount_pct, weight_grams, shipping_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "InsertOrder", orderQuery)
	_, err := q.Exec(ctx, orderQuery,
		order.ID, order.SubtotalCents, order.DiscountCents, order.ShippingCents,
		order.TotalCents, order.DestinationLat, order.DestinationLng)
	end(err)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		line.ID = uuid.New().String()
		line.OrderID = order.ID

		ctx, end := database.TraceQuery(ctx, "InsertOrderLine", lineQuery)
		_, err := q.Exec(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID, line.WarehouseID, line.Quantity,
			line.UnitPriceCents, line.DiscountPct, line.WeightGrams, line.ShippingCents)
		end(err)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return nil
}

// GetByID loads an order header and its lines. Lines are ordered by
// (product_id, warehouse_id) so repeated reads return them identically.
func (r *OrderRepository) GetByID(ctx context.Context, q database.Querier, id string) (*domain.Order, error) {
	const orderQuery = `
		SELECT id, subtotal_cents, discount_cents, shipping_cents, total_cents, destination_lat, destination_lng, created_at
		FROM orders
		WHERE id = $1`

	const linesQuery = `
		SELECT id, order_id, product_id, warehouse_id, quantity, unit_price_cents, discount_pct, weight_grams, shipping_cents
		FROM order_lines
		WHERE order_id = $1
		ORDER BY product_id, warehouse_id`

	var order domain.Order
	ctx, end := database.TraceQuery(ctx, "GetOrderByID", orderQuery)
	err := q.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.SubtotalCents, &order.DiscountCents, &order.ShippingCents,
		&order.TotalCents, &order.DestinationLat, &order.DestinationLng, &order.CreatedAt)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	ctx, end = database.TraceQuery(ctx, "GetOrderLines", linesQuery)
	rows, err := q.Query(ctx, linesQuery, id)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.WarehouseID, &line.Quantity,
			&line.UnitPriceCents, &line.DiscountPct, &line.WeightGrams, &line.ShippingCents); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return &order, nil
}
