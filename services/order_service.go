package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faras-store/backend/events"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/pricing"
	"github.com/faras-store/backend/repository"
)

// ProductLookup is the authoritative catalog collaborator. Prices and
// names always come from here, never from the client.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService assembles orders from client-declared product IDs and
// quantities with server-recomputed pricing.
type OrderService struct {
	orderRepo repository.OrderRepository
	catalog   ProductLookup
	rules     pricing.Rules
	publisher events.Publisher
	currency  string
	logger    *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	catalog ProductLookup,
	rules pricing.Rules,
	publisher events.Publisher,
	currency string,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		rules:     rules,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
	}
}

// CreateOrder validates the request, resolves authoritative prices, and
// persists the order in its initial unpaid pending state. No partial
// orders: any unresolvable product aborts the whole call before the write.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, newServiceError(400, "Invalid user ID format", nil)
	}

	if len(req.Items) == 0 {
		return nil, newServiceError(400, "At least one item is required", ErrEmptyCart)
	}

	if msg := validateAddress(req.ShippingAddress); msg != "" {
		return nil, newServiceError(400, msg, nil)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "stripe"
	}

	orderItems := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.catalog.FindByID(ctx, item.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				return nil, newServiceError(404, "Product "+item.ProductID+" not found", err)
			}
			s.logger.Error("Product lookup failed",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return nil, newServiceError(500, "Failed to resolve products", err)
		}

		price := decimal.NewFromFloat(product.Price)
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     image,
			Price:     price,
			Quantity:  item.Quantity,
		})
		lines = append(lines, pricing.Line{UnitPrice: price, Quantity: item.Quantity})
	}

	breakdown := s.rules.Compute(lines)

	order := &models.Order{
		UserID:        userUUID,
		Address:       req.ShippingAddress,
		PaymentMethod: paymentMethod,
		ItemsPrice:    breakdown.Subtotal,
		ShippingPrice: breakdown.ShippingFee,
		TaxPrice:      breakdown.TaxAmount,
		TotalPrice:    breakdown.Total,
		Status:        models.OrderStatusPending,
		IsPaid:        false,
		IsDelivered:   false,
		OrderItems:    orderItems,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, newServiceError(500, "Failed to create order", err)
	}

	s.publishEvent(ctx, events.TypeOrderCreated, order)

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID),
		zap.String("total", order.TotalPrice.String()),
	)
	return order, nil
}

// GetUserOrders retrieves paginated orders for a specific user.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, newServiceError(400, "Invalid user ID format", nil)
	}

	orders, total, err := s.orderRepo.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return nil, newServiceError(500, "Failed to fetch orders", err)
	}

	return listResponse(orders, total, page, limit), nil
}

// GetAllOrders retrieves paginated orders for all users (admin only).
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, newServiceError(500, "Failed to fetch orders", err)
	}

	return listResponse(orders, total, page, limit), nil
}

// GetOrderByID retrieves an order visible to the requesting user. Admins
// can read any order.
func (s *OrderService) GetOrderByID(ctx context.Context, userID string, isAdmin bool, orderID uuid.UUID) (*models.Order, *ServiceError) {
	if isAdmin {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, orderFetchError(err)
		}
		return order, nil
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, newServiceError(400, "Invalid user ID format", nil)
	}

	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userUUID)
	if err != nil {
		return nil, orderFetchError(err)
	}
	return order, nil
}

// UpdateOrderStatus applies an admin fulfillment transition with
// compare-and-set semantics: the write only lands if the order is still
// in the state the admin saw.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus) (*models.Order, *ServiceError) {
	if !next.IsValid() {
		return nil, newServiceError(400, "Unknown order status: "+next.String(), nil)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, orderFetchError(err)
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, newServiceError(409, "Cannot transition order from "+order.Status.String()+" to "+next.String(), nil)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		if err == repository.ErrStaleWrite {
			return nil, newServiceError(409, "Order was modified concurrently, reload and retry", err)
		}
		s.logger.Error("Failed to update order status",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, newServiceError(500, "Failed to update order status", err)
	}

	updated, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, orderFetchError(err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", order.Status.String()),
		zap.String("to", next.String()),
	)
	return updated, nil
}

func (s *OrderService) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := events.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID.String(),
		UserID:    order.UserID.String(),
		Total:     order.TotalPrice.String(),
		Currency:  s.currency,
		Timestamp: time.Now().UTC(),
	}
	// Best-effort; the order is already durable.
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Warn("Order event publish failed",
			zap.String("order_id", event.OrderID),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

func validateAddress(addr models.ShippingAddress) string {
	fields := []struct {
		name  string
		value string
	}{
		{"street", addr.Street},
		{"city", addr.City},
		{"state", addr.State},
		{"zip_code", addr.ZipCode},
		{"country", addr.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return "Shipping address field " + f.name + " is required"
		}
	}
	return ""
}

func orderFetchError(err error) *ServiceError {
	if err == repository.ErrOrderNotFound {
		return newServiceError(404, "Order not found", err)
	}
	return newServiceError(500, "Failed to fetch order", err)
}

func listResponse(orders []models.Order, total int64, page, limit int) *OrderListResponse {
	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
