// model/order.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderReturned   OrderStatus = "RETURNED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// forwardEdges is the only source of truth for legal status moves.
// DELIVERED -> RETURNED is the single edge out of a terminal-ish status;
// the return window itself is the return collaborator's problem.
var forwardEdges = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderReturned},
}

func LegalTransition(from, to OrderStatus) bool {
	for _, s := range forwardEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderReturned:
		return st, true
	}
	return "", false
}

func ValidPaymentStatus(s string) (PaymentStatus, bool) {
	switch st := PaymentStatus(s); st {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return st, true
	}
	return "", false
}

// StatusNeedsPayment reports whether a status is at or past shipment,
// where a non-COD order must already be paid.
func StatusNeedsPayment(s OrderStatus) bool {
	return s == OrderShipped || s == OrderDelivered
}

type DiscountType string

const (
	DiscountFlat    DiscountType = "FLAT"
	DiscountPercent DiscountType = "PERCENT"
)

type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	SellerID     int64           `json:"seller_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
	Quantity     int             `json:"quantity"`
}

type Order struct {
	ID            int64           `json:"id"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	COD           bool            `json:"cod"`
	Items         []OrderItem     `json:"items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	CouponAmount  decimal.Decimal `json:"coupon_amount"`
	Settled       bool            `json:"settled"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
