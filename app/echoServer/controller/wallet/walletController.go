package wallet

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	walletsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/wallet"
)

type Controller struct {
	Svc walletsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/wallet/balance
func (h *Controller) Balance(c echo.Context) error {
	sellerID := c.Get("user_id").(int64)
	bal, err := h.Svc.BalanceOf(c.Request().Context(), sellerID)
	if err != nil {
		h.Log.Error("wallet balance", "seller_id", sellerID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, model.SellerWallet{SellerID: sellerID, Balance: bal})
}

// GET /v1/wallet/ledger?limit=&offset=
func (h *Controller) Ledger(c echo.Context) error {
	sellerID := c.Get("user_id").(int64)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	rows, err := h.Svc.Ledger(c.Request().Context(), sellerID, limit, offset)
	if err != nil {
		h.Log.Error("wallet ledger", "seller_id", sellerID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

type AdjustReq struct {
	SellerID    int64           `json:"seller_id" validate:"required,gt=0"`
	EntryType   string          `json:"entry_type" validate:"required,oneof=CREDIT DEBIT"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
}

// POST /v1/wallet/adjust (admin)
func (h *Controller) Adjust(c echo.Context) error {
	var req AdjustReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	entry, err := h.Svc.Adjust(c.Request().Context(), req.SellerID, model.LedgerType(req.EntryType), req.Amount, req.Description)
	if err != nil {
		h.Log.Error("wallet adjust", "seller_id", req.SellerID, "err", err)
		switch model.Code(err) {
		case model.ErrInvalidAmount, model.ErrInvalidInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case model.ErrInsufficientFunds:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case model.ErrConcurrencyConflict:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "busy, retry later"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, entry)
}
