package domain

import "time"

// Inventory is the physical stock of one product at one warehouse.
// Quantity never goes below zero; the schema enforces it with a CHECK
// constraint and the decrement path enforces it with a conditional write.
type Inventory struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockSnapshot maps warehouseID -> productID -> quantity. Pairs with no
// recorded row are simply absent and read as zero.
type StockSnapshot map[string]map[string]int

// Quantity returns the recorded quantity for a (warehouse, product) pair,
// or zero when no row exists.
func (s StockSnapshot) Quantity(warehouseID, productID string) int {
	return s[warehouseID][productID]
}

// StockDecrement is one inventory decrement to apply during order commit.
type StockDecrement struct {
	ProductID   string
	WarehouseID string
	Quantity    int
}

// Inventory log change types.
const (
	ChangeTypeOrderFulfillment = "ORDER_FULFILLMENT"
)

// InventoryLog is an append-only audit record of a stock mutation. Rows are
// never updated or deleted.
type InventoryLog struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	WarehouseID       string    `json:"warehouse_id"`
	QuantityChange    int       `json:"quantity_change"`
	ResultingQuantity int       `json:"resulting_quantity"`
	ChangeType        string    `json:"change_type"`
	ReferenceID       string    `json:"reference_id"`
	CreatedAt         time.Time `json:"created_at"`
}
