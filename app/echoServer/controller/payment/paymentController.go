package payment

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	ordersvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/order"
)

type Controller struct {
	Svc ordersvc.Service
	// Token is the shared secret the payment collaborator sends in
	// X-Callback-Token.
	Token string
	Log   *slog.Logger
}

type notifyEvent struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// POST /v1/payment/notify
// Opaque status update from the payment collaborator; only PAID and
// FAILED are meaningful here.
func (h *Controller) HandleNotify(c echo.Context) error {
	if c.Request().Header.Get("X-Callback-Token") != h.Token {
		h.Log.Warn("payment notify with bad callback token", "ip", c.RealIP())
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid callback token"})
	}

	var ev notifyEvent
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if ev.OrderID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing order_id"})
	}

	status, ok := model.ValidPaymentStatus(ev.Status)
	if !ok || status == model.PaymentPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown payment status " + ev.Status})
	}

	if _, err := h.Svc.SetPaymentStatus(c.Request().Context(), ev.OrderID, status); err != nil {
		h.Log.Error("payment notify", "order_id", ev.OrderID, "status", status, "err", err)
		switch model.Code(err) {
		case model.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case model.ErrAlreadyPaidImmutable:
			// duplicate notification, nothing to redo
			return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "payment rejected"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
