package repository

import (
	"context"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
)

// ProductRepository reads catalog reference data. Reference data is safe to
// read unlocked at any time.
type ProductRepository interface {
	// GetByIDs returns the products for the given ids, keyed by id. Missing
	// ids are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)

	// List returns all products ordered by name.
	List(ctx context.Context) ([]domain.Product, error)

	// GetDiscountsByProductIDs returns volume discount tiers grouped by
	// product id, each group ordered by descending threshold.
	GetDiscountsByProductIDs(ctx context.Context, ids []string) (map[string][]domain.VolumeDiscount, error)
}

// WarehouseRepository reads warehouse reference data.
type WarehouseRepository interface {
	// List returns all warehouses in insertion order.
	List(ctx context.Context) ([]domain.Warehouse, error)
}

// InventoryRepository accesses physical stock. Both methods take an explicit
// Querier so they run on the caller's transaction; the locked read must be
// held by the same transaction that later decrements.
type InventoryRepository interface {
	// GetForUpdate reads stock for the given products under a row lock held
	// for the lifetime of the enclosing transaction. Pairs with no inventory
	// row are absent from the snapshot (quantity zero), never an error.
	GetForUpdate(ctx context.Context, q database.Querier, productIDs []string) (domain.StockSnapshot, error)

	// DecrementAndLog atomically decrements inventory, conditioned on the
	// current quantity covering the decrement, and appends one inventory log
	// row per decrement with the given reference id. A decrement that matches
	// no row is an internal invariant violation and fails the whole write.
	DecrementAndLog(ctx context.Context, q database.Querier, decrements []domain.StockDecrement, referenceID string) error
}

// ReservationRepository reads reservation holds. Intentionally not locked:
// reservations are written and expired by mechanisms outside this engine, and
// the resulting read window is an accepted race.
type ReservationRepository interface {
	// GetReservedQuantities sums quantities across ACTIVE, unexpired
	// reservation lines for the given products, grouped by warehouse and
	// product.
	GetReservedQuantities(ctx context.Context, q database.Querier, productIDs []string) (domain.StockSnapshot, error)
}

// OrderRepository persists and reads committed orders.
type OrderRepository interface {
	// Create inserts the order header and all lines on the caller's
	// transaction.
	Create(ctx context.Context, q database.Querier, order *domain.Order) error

	// GetByID loads an order and its lines. Returns a not-found error when no
	// order exists with the given id.
	GetByID(ctx context.Context, q database.Querier, id string) (*domain.Order, error)
}
