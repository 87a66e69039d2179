package withdrawal

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	withdrawalsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/withdrawal"
)

type Controller struct {
	Svc withdrawalsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/withdrawals (seller)
func (h *Controller) Create(c echo.Context) error {
	var req CreateWithdrawalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	sellerID := c.Get("user_id").(int64)

	out, err := h.Svc.Create(c.Request().Context(), sellerID, req.Amount)
	if err != nil {
		h.Log.Error("withdrawal create", "seller_id", sellerID, "err", err)
		if model.Code(err) == model.ErrInvalidAmount {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/withdrawals?seller_id=&status=&limit=&offset=
// Admins may filter freely; sellers only ever see their own requests.
func (h *Controller) List(c echo.Context) error {
	var f model.WithdrawalFilter

	role, _ := c.Get("role").(string)
	if role == "admin" {
		if v := c.QueryParam("seller_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid seller_id"})
			}
			f.SellerID = &id
		}
	} else {
		sellerID := c.Get("user_id").(int64)
		f.SellerID = &sellerID
	}

	if v := c.QueryParam("status"); v != "" {
		st, ok := model.ValidWithdrawalStatus(v)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown status " + v})
		}
		f.Status = &st
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	rows, err := h.Svc.List(c.Request().Context(), f, limit, offset)
	if err != nil {
		h.Log.Error("withdrawal list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/withdrawals/:id/approve (admin)
func (h *Controller) Approve(c echo.Context) error {
	return h.decide(c, "approve", h.Svc.Approve)
}

// POST /v1/withdrawals/:id/reject (admin)
func (h *Controller) Reject(c echo.Context) error {
	return h.decide(c, "reject", h.Svc.Reject)
}

func (h *Controller) decide(c echo.Context, op string, fn func(ctx context.Context, id int64, note string) (*model.WithdrawalRequest, error)) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req DecideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}

	out, err := fn(c.Request().Context(), id, req.AdminNote)
	if err != nil {
		h.Log.Error("withdrawal "+op, "request_id", id, "err", err)
		switch model.Code(err) {
		case model.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "withdrawal request not found"})
		case model.ErrAlreadyDecided, model.ErrInsufficientFunds:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case model.ErrConcurrencyConflict:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "busy, retry later"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, out)
}
