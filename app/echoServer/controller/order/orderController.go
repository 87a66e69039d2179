package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	ordersvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/order"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/orders
// @Summary Create order (placement collaborator)
// @Success 201 {object} model.Order
// @Failure 400,401,500
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{
			SellerID:     it.SellerID,
			UnitPrice:    it.UnitPrice,
			Discount:     it.Discount,
			DiscountType: model.DiscountType(it.DiscountType),
			Quantity:     it.Quantity,
		})
	}

	o, err := h.Svc.Create(c.Request().Context(), ordersvc.CreateReq{
		Items:        items,
		ShippingCost: req.ShippingCost,
		CouponAmount: req.CouponAmount,
		COD:          req.COD,
	})
	if err != nil {
		h.Log.Error("order create", "err", err)
		if model.Code(err) == model.ErrInvalidInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, o)
}

// GET /v1/orders/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	o, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if model.Code(err) == model.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		}
		h.Log.Error("order get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, o)
}

// POST /v1/orders/:id/status
func (h *Controller) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	status, ok := model.ValidOrderStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown status " + req.Status})
	}

	o, err := h.Svc.SetStatus(c.Request().Context(), id, status)
	if err != nil {
		h.Log.Error("order set status", "order_id", id, "status", status, "err", err)
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// POST /v1/orders/:id/payment-status
func (h *Controller) SetPaymentStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetPaymentStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	status, ok := model.ValidPaymentStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown payment status " + req.Status})
	}

	o, err := h.Svc.SetPaymentStatus(c.Request().Context(), id, status)
	if err != nil {
		h.Log.Error("order set payment status", "order_id", id, "status", status, "err", err)
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// orderError maps service error codes onto HTTP statuses; the coded
// message already carries the current state, so it goes out verbatim.
func orderError(c echo.Context, err error) error {
	switch model.Code(err) {
	case model.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
	case model.ErrIllegalTransition, model.ErrFrozen, model.ErrPaymentRequired,
		model.ErrAlreadyPaidImmutable, model.ErrInsufficientFunds:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case model.ErrConcurrencyConflict:
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "busy, retry later"})
	case model.ErrInvalidInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
