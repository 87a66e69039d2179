package order

import "github.com/shopspring/decimal"

type ItemReq struct {
	SellerID     int64           `json:"seller_id" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type" validate:"required,oneof=FLAT PERCENT"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderReq struct {
	Items        []ItemReq       `json:"items" validate:"required,min=1,dive"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	CouponAmount decimal.Decimal `json:"coupon_amount"`
	COD          bool            `json:"cod"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required"`
}

type SetPaymentStatusReq struct {
	Status string `json:"status" validate:"required"`
}
