package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/blob"
	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// legalTransitions is the explicit order lifecycle: pending → processing →
// shipped → delivered, with cancellation possible until shipping.
var legalTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// ValidStatus reports whether s is a member of the order status enum.
func ValidStatus(s string) bool {
	_, ok := legalTransitions[s]
	return ok
}

// ValidPaymentStatus reports whether s is a member of the payment status enum.
func ValidPaymentStatus(s string) bool {
	return s == models.PaymentStatusPending || s == models.PaymentStatusPaid
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewTrackingNumber generates the human-shareable order identifier.
func NewTrackingNumber(now time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TRK-%s-%s", now.Format("20060102"), fragment)
}

// OrderService handles the order lifecycle
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	blobs          blob.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	shippingFee    int64
	cacheTTL       time.Duration
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	blobs blob.Store,
	eventPublisher *broker.EventPublisher,
	shippingFee int64,
	cacheTTL time.Duration,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		blobs:          blobs,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger().Named("orders"),
		shippingFee:    shippingFee,
		cacheTTL:       cacheTTL,
	}
}

// CreateOrderRequest represents a checkout request
type CreateOrderRequest struct {
	UserID             *int64             `json:"user_id"`
	GuestEmail         string             `json:"guest_email"`
	Items              []OrderItemRequest `json:"items" binding:"required,min=1"`
	PaymentMethod      string             `json:"payment_method" binding:"required"`
	ShippingAddress    string             `json:"shipping_address" binding:"required"`
	ShippingCity       string             `json:"shipping_city"`
	ShippingPostalCode string             `json:"shipping_postal_code"`
	ShippingCountry    string             `json:"shipping_country"`
	ContactPhone       string             `json:"contact_phone"`
}

// OrderItemRequest represents an item in a checkout request
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrder creates an order with its items. Item prices are snapshotted
// from the product rows at this moment; the total adds the flat shipping fee.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if req.UserID == nil && req.GuestEmail == "" {
		return nil, fmt.Errorf("either a user or a guest email is required")
	}

	products, err := s.validateOrderItems(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: products[item.ProductID].Price,
		})
	}

	order := &models.Order{
		TrackingNumber:     NewTrackingNumber(time.Now()),
		UserID:             req.UserID,
		Status:             models.OrderStatusPending,
		PaymentStatus:      models.PaymentStatusPending,
		PaymentMethod:      req.PaymentMethod,
		TotalAmount:        CalculateTotal(items, s.shippingFee),
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingCountry:    req.ShippingCountry,
		ContactPhone:       req.ContactPhone,
	}
	if req.UserID == nil {
		order.GuestEmail = &req.GuestEmail
	}

	if err := s.store.CreateOrderTx(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("tracking_number", order.TrackingNumber))

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeOrderCreated),
		OrderID:        order.ID,
		TrackingNumber: order.TrackingNumber,
		UserID:         order.UserID,
		GuestEmail:     order.GuestEmail,
		TotalAmount:    order.TotalAmount,
		Items:          eventItems,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return order, nil
}

// GetOrder retrieves an order with its items and receipt
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.DetailedOrder, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, order)
}

// GetOrderByTracking retrieves an order by tracking number, going through
// the cache first. Tracking lookups are the hot public path.
func (s *OrderService) GetOrderByTracking(ctx context.Context, tracking string) (*models.DetailedOrder, error) {
	if cached, err := s.redis.GetCachedOrder(ctx, tracking); err == nil && cached != nil {
		var detail models.DetailedOrder
		if err := json.Unmarshal(cached, &detail); err == nil {
			return &detail, nil
		}
	}

	order, err := s.store.GetOrderByTrackingNumber(ctx, tracking)
	if err != nil {
		return nil, err
	}

	detail, err := s.assembleDetail(ctx, order)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(detail); err == nil {
		if err := s.redis.CacheOrder(ctx, tracking, payload, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache order", zap.Error(err))
		}
	}

	return detail, nil
}

// ListOrders returns one admin page of orders and the total count
func (s *OrderService) ListOrders(ctx context.Context, page, pageSize int, status, search string) ([]models.Order, int, error) {
	if status != "" && status != "all" && !ValidStatus(status) {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	return s.store.ListOrders(ctx, page, pageSize, status, search)
}

// GetUserOrders returns a user's orders, each with its items
func (s *OrderService) GetUserOrders(ctx context.Context, userID int64) ([]models.DetailedOrder, error) {
	orders, err := s.store.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]models.DetailedOrder, 0, len(orders))
	for i := range orders {
		detail, err := s.assembleDetail(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// ChangeStatus applies a validated status transition
func (s *OrderService) ChangeStatus(ctx context.Context, orderID int64, newStatus string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.ChangeStatus")
	defer span.End()

	if !ValidStatus(newStatus) {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, newStatus)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status == newStatus {
		return nil
	}

	if !CanTransition(order.Status, newStatus) {
		util.OrderStatusRejectedTotal.Inc()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(order.Status, newStatus).Inc()
	s.invalidateCache(ctx, order.TrackingNumber)

	event := &models.OrderStatusChangedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:    orderID,
		FromStatus: order.Status,
		ToStatus:   newStatus,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	if newStatus == models.OrderStatusCancelled {
		cancelled := &models.OrderCancelledEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderCancelled),
			OrderID:   orderID,
			Reason:    "cancelled by admin",
		}
		if err := s.eventPublisher.PublishOrderCancelled(ctx, cancelled); err != nil {
			s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
		}
	}

	return nil
}

// ChangePaymentStatus marks the bank transfer as verified, or reverts it
// to pending. Payment status is independent of the fulfilment status.
func (s *OrderService) ChangePaymentStatus(ctx context.Context, orderID int64, paymentStatus string) error {
	if !ValidPaymentStatus(paymentStatus) {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, paymentStatus)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.PaymentStatus == paymentStatus {
		return nil
	}

	if err := s.store.UpdateOrderPaymentStatus(ctx, orderID, paymentStatus); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	s.logger.Info("Payment status updated",
		zap.Int64("order_id", orderID),
		zap.String("payment_status", paymentStatus))

	s.invalidateCache(ctx, order.TrackingNumber)
	return nil
}

// DeleteOrder removes the order, its items and its receipt in one
// transaction, then cleans up the receipt blob.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	receiptPath, err := s.store.DeleteOrderTx(ctx, orderID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("delete_failed").Inc()
		return fmt.Errorf("failed to delete order: %w", err)
	}

	// The rows are gone; blob removal after the commit is best effort.
	if receiptPath != "" {
		if err := s.blobs.Delete(receiptPath); err != nil {
			s.logger.Warn("Failed to delete receipt file",
				zap.Int64("order_id", orderID), zap.Error(err))
		}
	}

	util.OrdersDeletedTotal.Inc()
	s.invalidateCache(ctx, order.TrackingNumber)

	event := &models.OrderDeletedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeOrderDeleted),
		OrderID:        orderID,
		TrackingNumber: order.TrackingNumber,
	}
	if err := s.eventPublisher.PublishOrderDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
	}

	return nil
}

// CalculateTotal sums the item price snapshots and adds the shipping fee.
func CalculateTotal(items []models.OrderItem, shippingFee int64) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}
	return subtotal + shippingFee
}

// validateOrderItems validates that all products exist
func (s *OrderService) validateOrderItems(ctx context.Context, items []OrderItemRequest) (map[int64]*models.Product, error) {
	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[int64]*models.Product)
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, item := range items {
		if _, ok := productMap[item.ProductID]; !ok {
			return nil, fmt.Errorf("product not found: %d", item.ProductID)
		}
	}

	return productMap, nil
}

func (s *OrderService) assembleDetail(ctx context.Context, order *models.Order) (*models.DetailedOrder, error) {
	items, err := s.store.GetOrderItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.store.GetReceiptByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	detail := &models.DetailedOrder{
		Order:   *order,
		Items:   items,
		Receipt: receipt,
	}

	if order.UserID != nil {
		user, err := s.store.GetUserByID(ctx, *order.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			detail.UserName = userDisplayName(user.FirstName, user.LastName)
			email := user.Email
			detail.UserEmail = &email
		}
	}
	if detail.UserEmail == nil && order.GuestEmail != nil {
		detail.UserEmail = order.GuestEmail
	}
	return detail, nil
}

// userDisplayName joins the name columns, either of which may be empty.
// Returns nil when there is no name to show.
func userDisplayName(firstName, lastName string) *string {
	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		return nil
	}
	return &name
}

func (s *OrderService) invalidateCache(ctx context.Context, tracking string) {
	if err := s.redis.InvalidateOrder(ctx, tracking); err != nil {
		s.logger.Warn("Failed to invalidate order cache",
			zap.String("tracking_number", tracking), zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
