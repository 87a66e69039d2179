package payment

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	ordersvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/order"
)

type mockOrderSvc struct {
	setPaymentStatusFunc func(ctx context.Context, id int64, st model.PaymentStatus) (*model.Order, error)
}

func (m *mockOrderSvc) Create(ctx context.Context, req ordersvc.CreateReq) (*model.Order, error) {
	panic("not used")
}

func (m *mockOrderSvc) Get(ctx context.Context, id int64) (*model.Order, error) {
	panic("not used")
}

func (m *mockOrderSvc) SetStatus(ctx context.Context, id int64, st model.OrderStatus) (*model.Order, error) {
	panic("not used")
}

func (m *mockOrderSvc) SetPaymentStatus(ctx context.Context, id int64, st model.PaymentStatus) (*model.Order, error) {
	return m.setPaymentStatusFunc(ctx, id, st)
}

func notify(h *Controller, token, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/notify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("X-Callback-Token", token)
	}
	rec := httptest.NewRecorder()
	_ = h.HandleNotify(e.NewContext(req, rec))
	return rec
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleNotify_BadToken(t *testing.T) {
	called := false
	h := &Controller{
		Svc: &mockOrderSvc{
			setPaymentStatusFunc: func(ctx context.Context, id int64, st model.PaymentStatus) (*model.Order, error) {
				called = true
				return nil, nil
			},
		},
		Token: "secret",
		Log:   testLog(),
	}

	rec := notify(h, "wrong", `{"order_id":1,"status":"PAID"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)

	rec = notify(h, "", `{"order_id":1,"status":"PAID"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestHandleNotify_Paid(t *testing.T) {
	var gotID int64
	var gotStatus model.PaymentStatus
	h := &Controller{
		Svc: &mockOrderSvc{
			setPaymentStatusFunc: func(ctx context.Context, id int64, st model.PaymentStatus) (*model.Order, error) {
				gotID, gotStatus = id, st
				return &model.Order{ID: id, PaymentStatus: st}, nil
			},
		},
		Token: "secret",
		Log:   testLog(),
	}

	rec := notify(h, "secret", `{"order_id":42,"status":"PAID"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(42), gotID)
	require.Equal(t, model.PaymentPaid, gotStatus)
}

func TestHandleNotify_DuplicateIsOK(t *testing.T) {
	h := &Controller{
		Svc: &mockOrderSvc{
			setPaymentStatusFunc: func(ctx context.Context, id int64, st model.PaymentStatus) (*model.Order, error) {
				return nil, model.Errf(model.ErrAlreadyPaidImmutable, "order %d already paid", id)
			},
		},
		Token: "secret",
		Log:   testLog(),
	}

	rec := notify(h, "secret", `{"order_id":42,"status":"PAID"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleNotify_BadPayload(t *testing.T) {
	h := &Controller{Svc: &mockOrderSvc{}, Token: "secret", Log: testLog()}

	rec := notify(h, "secret", `{"order_id":42,"status":"PENDING"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = notify(h, "secret", `{"status":"PAID"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleNotify_UnknownOrder(t *testing.T) {
	h := &Controller{
		Svc: &mockOrderSvc{
			setPaymentStatusFunc: func(ctx context.Context, id int64, st model.PaymentStatus) (*model.Order, error) {
				return nil, model.Err(model.ErrNotFound)
			},
		},
		Token: "secret",
		Log:   testLog(),
	}

	rec := notify(h, "secret", `{"order_id":9,"status":"PAID"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
