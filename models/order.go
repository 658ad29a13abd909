package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsValid reports whether s is a known status value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the fulfillment flow: pending -> processing ->
// shipped -> delivered, with cancellation allowed from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// ShippingAddress is embedded into Order; all fields are required at
// order creation.
type ShippingAddress struct {
	Street  string `gorm:"not null" json:"street"`
	City    string `gorm:"not null" json:"city"`
	State   string `gorm:"not null" json:"state"`
	ZipCode string `gorm:"not null" json:"zip_code"`
	Country string `gorm:"not null" json:"country"`
}

// PaymentResult is the processor outcome summary persisted on a paid order.
type PaymentResult struct {
	IntentID string     `json:"intent_id"`
	Status   string     `json:"status"`
	PaidAt   *time.Time `json:"paid_at"`
}

type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Address       ShippingAddress `gorm:"embedded;embeddedPrefix:addr_" json:"shipping_address"`
	PaymentMethod string          `gorm:"type:varchar(32);not null;default:'stripe'" json:"payment_method"`

	ItemsPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`

	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IsPaid      bool        `gorm:"not null;default:false" json:"is_paid"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
	IsDelivered bool        `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`

	PaymentIntentID string `gorm:"type:varchar(255)" json:"payment_intent_id,omitempty"`
	PaymentStatus   string `gorm:"type:varchar(32)" json:"payment_status,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}

// OrderItem snapshots the product at order time; later catalog edits never
// change an existing order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string          `gorm:"type:varchar(64);not null" json:"product_id"`
	Name      string          `gorm:"not null" json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}

// PaymentResultOf assembles the persisted payment summary for responses.
func (o *Order) PaymentResultOf() *PaymentResult {
	if !o.IsPaid || o.PaymentIntentID == "" {
		return nil
	}
	return &PaymentResult{
		IntentID: o.PaymentIntentID,
		Status:   o.PaymentStatus,
		PaidAt:   o.PaidAt,
	}
}
