package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusFailed         OrderStatus = "failed"
)

// IsTerminal reports whether the webhook reconciler will never advance an
// order out of this status again.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFailed, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Updatable reports whether payment notifications may still change this status.
func (s OrderStatus) Updatable() bool {
	return s == OrderStatusPendingPayment || s == OrderStatusProcessing
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	// UnitPrice is in the currency's smallest unit.
	UnitPrice int64 `json:"unit_price"`
}

// PaymentResult is the last provider-reported payment state for an order.
// Refreshed on every accepted notification, even when the status is unchanged.
type PaymentResult struct {
	PaymentID       string    `json:"payment_id"`
	Status          string    `json:"status"`
	UpdateTime      time.Time `json:"update_time"`
	PayerEmail      string    `json:"payer_email"`
	PaymentMethodID string    `json:"payment_method_id"`
	CardLastFour    string    `json:"card_last_four"`
}

type Order struct {
	ID          string                                 `gorm:"column:id;primary_key;type:uuid;index:idx_order_user_id,priority:2,sort:desc" json:"id"`
	UserID      string                                 `gorm:"column:user_id;type:uuid;not null;index:idx_order_user_id,priority:1" json:"user_id"`
	OrderStatus OrderStatus                            `gorm:"column:order_status;type:varchar(32);not null;index" json:"order_status"`
	Items       datatypes.JSONType[[]OrderItem]        `gorm:"column:items;type:jsonb;default:'[]'" json:"items"`
	Payment     datatypes.JSONType[*PaymentResult]     `gorm:"column:payment_result;type:jsonb;default:'null'" json:"payment_result"`
	Shipping    datatypes.JSONType[*ShippingSnapshot]  `gorm:"column:shipping;type:jsonb;default:'null'" json:"shipping"`
	Total       int64                                  `gorm:"column:total;type:bigint;not null" json:"total"`
	Currency    string                                 `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	PaidAt      *time.Time                             `gorm:"column:paid_at;default:null" json:"paid_at"`
	CreatedAt   time.Time                              `json:"created_at"`
	UpdatedAt   time.Time                              `json:"updated_at"`
}

// ShippingSnapshot freezes the delivery address at checkout time so later
// address-book edits do not rewrite order history.
type ShippingSnapshot struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (Order) TableName() string { return "app_order" }

func (o *Order) PaymentResult() *PaymentResult {
	if o == nil {
		return nil
	}
	return o.Payment.Data()
}

func (o *Order) OrderItems() []OrderItem {
	if o == nil {
		return nil
	}
	return o.Items.Data()
}
