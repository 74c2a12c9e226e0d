package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	pkgkafka "github.com/ruzaikr/screencloud-takehome/pkg/kafka"
	"github.com/ruzaikr/screencloud-takehome/pkg/logger"
)

// Kafka topic constants for order domain events.
const (
	TopicOrderPlaced      = "fulfillment.order.placed"
	TopicInventoryUpdated = "fulfillment.inventory.updated"
)

// Aggregate type constants.
const (
	AggregateTypeOrder     = "order"
	AggregateTypeInventory = "inventory"
)

// Source identifier for events originating from this service.
const SourceFulfillmentService = "fulfillment-service"

// OrderPlacedLine is one allocation line in an order.placed event.
type OrderPlacedLine struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int    `json:"quantity"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID           string            `json:"order_id"`
	TotalPriceCents   int64             `json:"total_price_cents"`
	DiscountCents     int64             `json:"discount_cents"`
	ShippingCostCents int64             `json:"shipping_cost_cents"`
	Lines             []OrderPlacedLine `json:"lines"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the fulfillment engine.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order.placed event after a committed order.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order, confirmation *domain.OrderConfirmation) error {
	data := OrderPlacedData{
		OrderID:           confirmation.OrderID,
		TotalPriceCents:   confirmation.TotalPriceCents,
		DiscountCents:     confirmation.DiscountCents,
		ShippingCostCents: confirmation.ShippingCostCents,
		Lines:             make([]OrderPlacedLine, 0, len(order.Lines)),
	}
	for _, l := range order.Lines {
		data.Lines = append(data.Lines, OrderPlacedLine{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
		})
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, order.ID, AggregateTypeOrder, SourceFulfillmentService, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		event.WithCorrelationID(correlationID)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.ID),
		slog.Int("line_count", len(order.Lines)),
	)

	return nil
}

// InventoryChange is one stock movement in an inventory.updated event.
// QuantityChange is negative for fulfillment decrements.
type InventoryChange struct {
	ProductID      string `json:"product_id"`
	WarehouseID    string `json:"warehouse_id"`
	QuantityChange int    `json:"quantity_change"`
}

// InventoryUpdatedData is the payload for an inventory.updated event.
type InventoryUpdatedData struct {
	ReferenceID string            `json:"reference_id"`
	ChangeType  string            `json:"change_type"`
	Changes     []InventoryChange `json:"changes"`
}

// PublishInventoryUpdated publishes an inventory.updated event describing the
// stock movements committed for the given order.
func (p *Producer) PublishInventoryUpdated(ctx context.Context, orderID string, decrements []domain.StockDecrement) error {
	data := InventoryUpdatedData{
		ReferenceID: orderID,
		ChangeType:  domain.ChangeTypeOrderFulfillment,
		Changes:     make([]InventoryChange, 0, len(decrements)),
	}
	for _, d := range decrements {
		data.Changes = append(data.Changes, InventoryChange{
			ProductID:      d.ProductID,
			WarehouseID:    d.WarehouseID,
			QuantityChange: -d.Quantity,
		})
	}

	event, err := pkgkafka.NewEvent(TopicInventoryUpdated, orderID, AggregateTypeInventory, SourceFulfillmentService, data)
	if err != nil {
		return fmt.Errorf("create inventory.updated event: %w", err)
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		event.WithCorrelationID(correlationID)
	}

	if err := p.kafka.Publish(ctx, TopicInventoryUpdated, event); err != nil {
		return fmt.Errorf("publish inventory.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published inventory.updated event",
		slog.String("reference_id", orderID),
		slog.Int("change_count", len(data.Changes)),
	)

	return nil
}
