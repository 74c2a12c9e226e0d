package postgres

import (
	"context"
	"fmt"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetByIDs returns the products for the given ids, keyed by id.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	query := `
		SELECT id, name, price_cents, weight_grams, created_at, updated_at
		FROM products
		WHERE id = ANY($1)`

	ctx, end := database.TraceQuery(ctx, "GetProductsByIDs", query)
	rows, err := r.pool.Query(ctx, query, ids)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPriceCents, &p.WeightGrams, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// List returns all products ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price_cents, weight_grams, created_at, updated_at
		FROM products
		ORDER BY name`

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	rows, err := r.pool.Query(ctx, query)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPriceCents, &p.WeightGrams, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// GetDiscountsByProductIDs returns volume discount tiers grouped by product
// id, each group ordered by descending threshold.
func (r *ProductRepository) GetDiscountsByProductIDs(ctx context.Context, ids []string) (map[string][]domain.VolumeDiscount, error) {
	query := `
		SELECT id, product_id, threshold_qty, discount_pct
		FROM volume_discounts
		WHERE product_id = ANY($1)
		ORDER BY product_id, threshold_qty DESC`

	ctx, end := database.TraceQuery(ctx, "GetDiscountsByProductIDs", query)
	rows, err := r.pool.Query(ctx, query, ids)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("get discounts by product ids: %w", err)
	}
	defer rows.Close()

	discounts := make(map[string][]domain.VolumeDiscount)
	for rows.Next() {
		var d domain.VolumeDiscount
		if err := rows.Scan(&d.ID, &d.ProductID, &d.ThresholdQty, &d.DiscountPct); err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}
		discounts[d.ProductID] = append(discounts[d.ProductID], d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount rows: %w", err)
	}

	return discounts, nil
}
