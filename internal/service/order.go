package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/internal/repository"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
	apperrors "github.com/ruzaikr/screencloud-takehome/pkg/errors"
	"github.com/ruzaikr/screencloud-takehome/pkg/validator"
)

// ShippingPolicy holds the two business constants the allocation pipeline
// depends on: the shipping rate and the shipping ceiling percentage of the
// discounted order value.
type ShippingPolicy struct {
	RateCentsPerKgPerKm int64
	MaxShippingPct      int
}

// EventPublisher publishes order lifecycle events after a committed
// transaction. Publishing is best effort; implementations must not be relied
// on for correctness of the order itself.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order, confirmation *domain.OrderConfirmation) error
	PublishInventoryUpdated(ctx context.Context, orderID string, decrements []domain.StockDecrement) error
}

// OrderService runs the order allocation pipeline: price the requested
// products, rank warehouses by shipping cost, allocate stock under row locks,
// validate the shipping ceiling, and either commit the order atomically
// (PlaceOrder) or roll everything back (CheckFeasibility).
type OrderService struct {
	db           database.DBTX
	products     repository.ProductRepository
	warehouses   repository.WarehouseRepository
	inventory    repository.InventoryRepository
	reservations repository.ReservationRepository
	orders       repository.OrderRepository
	producer     EventPublisher
	logger       *slog.Logger
	policy       ShippingPolicy
}

// NewOrderService creates a new order service.
func NewOrderService(
	db database.DBTX,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	inventory repository.InventoryRepository,
	reservations repository.ReservationRepository,
	orders repository.OrderRepository,
	producer EventPublisher,
	logger *slog.Logger,
	policy ShippingPolicy,
) *OrderService {
	return &OrderService{
		db:           db,
		products:     products,
		warehouses:   warehouses,
		inventory:    inventory,
		reservations: reservations,
		orders:       orders,
		producer:     producer,
		logger:       logger,
		policy:       policy,
	}
}

// DestinationInput is the delivery coordinate of an order request.
type DestinationInput struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// OrderItemInput is a single requested product line.
type OrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderRequestInput holds the parameters for placing an order or checking
// its feasibility.
type OrderRequestInput struct {
	Destination DestinationInput `json:"destination"`
	Items       []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// orderQuote is the outcome of the shared pricing/ranking/allocation pipeline
// before the commit-or-rollback decision.
type orderQuote struct {
	lines           []domain.AllocationLine
	totalPriceCents int64
	discountCents   int64
	shippingCents   int64
}

// PlaceOrder runs the full allocation pipeline and commits the order, its
// lines, the inventory decrements, and the audit log rows in one transaction.
// Any failure after the transaction begins rolls everything back; inventory
// is never partially decremented.
func (s *OrderService) PlaceOrder(ctx context.Context, input *OrderRequestInput) (*domain.OrderConfirmation, error) {
	items, dest, err := normalizeRequest(input)
	if err != nil {
		return nil, err
	}

	priced, ranked, err := s.priceAndRank(ctx, items, dest)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	quote, err := s.allocate(ctx, tx, items, priced, ranked)
	if err != nil {
		return nil, err
	}

	maxAllowed := domain.MaxAllowedShippingCents(quote.totalPriceCents-quote.discountCents, s.policy.MaxShippingPct)
	if quote.shippingCents > maxAllowed {
		return nil, &domain.ShippingCostExceededError{
			ShippingCents:   quote.shippingCents,
			MaxAllowedCents: maxAllowed,
		}
	}

	order := buildOrder(quote, dest)

	if err := s.orders.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.inventory.DecrementAndLog(ctx, tx, domain.Decrements(quote.lines), order.ID); err != nil {
		return nil, fmt.Errorf("decrement inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order transaction: %w", err)
	}

	confirmation := &domain.OrderConfirmation{
		OrderID:           order.ID,
		TotalPriceCents:   quote.totalPriceCents,
		DiscountCents:     quote.discountCents,
		ShippingCostCents: quote.shippingCents,
	}

	// Publish events; log but do not fail on error.
	if err := s.producer.PublishOrderPlaced(ctx, order, confirmation); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishInventoryUpdated(ctx, order.ID, domain.Decrements(quote.lines)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish inventory.updated event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Int64("total_price_cents", quote.totalPriceCents),
		slog.Int64("discount_cents", quote.discountCents),
		slog.Int64("shipping_cost_cents", quote.shippingCents),
		slog.Int("line_count", len(quote.lines)),
	)

	return confirmation, nil
}

// CheckFeasibility runs the same pipeline as PlaceOrder, including the locked
// inventory read for a consistent snapshot, but always rolls back and writes
// nothing. A shipping ceiling breach is reported as an invalid result with
// the totals populated; unknown products and insufficient inventory remain
// errors since they represent infeasibility rather than an economic
// rejection.
func (s *OrderService) CheckFeasibility(ctx context.Context, input *OrderRequestInput) (*domain.FeasibilityResult, error) {
	items, dest, err := normalizeRequest(input)
	if err != nil {
		return nil, err
	}

	priced, ranked, err := s.priceAndRank(ctx, items, dest)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin feasibility transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	quote, err := s.allocate(ctx, tx, items, priced, ranked)
	if err != nil {
		return nil, err
	}

	result := &domain.FeasibilityResult{
		IsValid:           true,
		TotalPriceCents:   quote.totalPriceCents,
		DiscountCents:     quote.discountCents,
		ShippingCostCents: quote.shippingCents,
	}

	maxAllowed := domain.MaxAllowedShippingCents(quote.totalPriceCents-quote.discountCents, s.policy.MaxShippingPct)
	if quote.shippingCents > maxAllowed {
		shipErr := &domain.ShippingCostExceededError{
			ShippingCents:   quote.shippingCents,
			MaxAllowedCents: maxAllowed,
		}
		result.IsValid = false
		result.Message = shipErr.Error()
	}

	s.logger.InfoContext(ctx, "feasibility checked",
		slog.Bool("is_valid", result.IsValid),
		slog.Int64("total_price_cents", result.TotalPriceCents),
		slog.Int64("shipping_cost_cents", result.ShippingCostCents),
	)

	return result, nil
}

// GetOrder returns a committed order with its lines.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, s.db, id)
}

// priceAndRank resolves the requested products against the catalog and ranks
// every warehouse by shipping cost to the destination. Reference data only;
// no locks taken.
func (s *OrderService) priceAndRank(ctx context.Context, items []domain.RequestedItem, dest domain.Coordinate) ([]domain.PricedProduct, []domain.RankedWarehouse, error) {
	ids := productIDs(items)

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}

	discounts, err := s.products.GetDiscountsByProductIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load volume discounts: %w", err)
	}

	priced, err := domain.PriceProducts(items, products, discounts)
	if err != nil {
		return nil, nil, err
	}

	warehouses, err := s.warehouses.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load warehouses: %w", err)
	}

	ranked := domain.RankWarehouses(warehouses, dest, s.policy.RateCentsPerKgPerKm)
	return priced, ranked, nil
}

// allocate reads stock under row locks on the given transaction, subtracts
// reservation holds, and greedily assigns quantities to warehouses.
func (s *OrderService) allocate(ctx context.Context, tx database.Querier, items []domain.RequestedItem, priced []domain.PricedProduct, ranked []domain.RankedWarehouse) (*orderQuote, error) {
	ids := productIDs(items)

	stock, err := s.inventory.GetForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}

	reserved, err := s.reservations.GetReservedQuantities(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load reservation holds: %w", err)
	}

	lines, err := domain.Allocate(priced, ranked, stock, reserved)
	if err != nil {
		return nil, err
	}

	quote := &orderQuote{
		lines:         lines,
		shippingCents: domain.TotalShippingCents(lines),
	}
	for _, p := range priced {
		quote.totalPriceCents += p.SubtotalCents
		quote.discountCents += p.DiscountCents
	}
	return quote, nil
}

// normalizeRequest validates the input and folds duplicate product ids into
// one requested item each, since discount tiers apply to the total requested
// quantity per product.
func normalizeRequest(input *OrderRequestInput) ([]domain.RequestedItem, domain.Coordinate, error) {
	if input == nil {
		return nil, domain.Coordinate{}, apperrors.InvalidInput("order request is required")
	}
	if err := validator.Validate(input); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			return nil, domain.Coordinate{}, apperrors.InvalidInput(vErr.Error())
		}
		return nil, domain.Coordinate{}, apperrors.InvalidInput(err.Error())
	}

	index := make(map[string]int, len(input.Items))
	items := make([]domain.RequestedItem, 0, len(input.Items))
	for _, item := range input.Items {
		if i, ok := index[item.ProductID]; ok {
			items[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(items)
		items = append(items, domain.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	dest := domain.Coordinate{
		Latitude:  input.Destination.Latitude,
		Longitude: input.Destination.Longitude,
	}
	return items, dest, nil
}

// productIDs returns the distinct requested product ids in request order.
func productIDs(items []domain.RequestedItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// buildOrder turns an accepted quote into the order aggregate to persist.
func buildOrder(quote *orderQuote, dest domain.Coordinate) *domain.Order {
	order := &domain.Order{
		ID:             uuid.New().String(),
		SubtotalCents:  quote.totalPriceCents,
		DiscountCents:  quote.discountCents,
		ShippingCents:  quote.shippingCents,
		TotalCents:     quote.totalPriceCents - quote.discountCents + quote.shippingCents,
		DestinationLat: dest.Latitude,
		DestinationLng: dest.Longitude,
		Lines:          make([]domain.OrderLine, 0, len(quote.lines)),
	}
	for _, l := range quote.lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:      l.ProductID,
			WarehouseID:    l.WarehouseID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			DiscountPct:    l.DiscountPct,
			WeightGrams:    l.WeightGrams,
			ShippingCents:  l.ShippingCents(),
		})
	}
	return order
}
