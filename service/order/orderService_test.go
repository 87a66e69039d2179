package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	orderrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/order"
)

type fakeTx struct{ mu sync.Mutex }

func (f *fakeTx) InTxRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(nil)
}

type memOrders struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*model.Order
}

var _ orderrepo.Repo = (*memOrders)(nil)

func newMemOrders() *memOrders {
	return &memOrders{nextID: 1, orders: map[int64]*model.Order{}}
}

func (m *memOrders) Insert(ctx context.Context, tx pgx.Tx, o *model.Order) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.ID = m.nextID
	m.nextID++
	m.orders[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memOrders) Get(ctx context.Context, id int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, model.Err(model.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error) {
	return m.Get(ctx, id)
}

func (m *memOrders) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[id].Status = status
	return nil
}

func (m *memOrders) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id int64, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[id].PaymentStatus = status
	return nil
}

func (m *memOrders) MarkSettled(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orders[id].Settled {
		return false, nil
	}
	m.orders[id].Settled = true
	return true, nil
}

func (m *memOrders) ListUnsettledDelivered(ctx context.Context, limit int) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id, o := range m.orders {
		if o.Status == model.OrderDelivered && o.PaymentStatus == model.PaymentPaid && !o.Settled {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type mockSettler struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (s *mockSettler) CreditOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.calls++
	return nil
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func seedOrder(t *testing.T, repo *memOrders, status model.OrderStatus, payment model.PaymentStatus, cod bool) int64 {
	t.Helper()
	id, err := repo.Insert(context.Background(), nil, &model.Order{
		Status:        status,
		PaymentStatus: payment,
		COD:           cod,
		Items: []model.OrderItem{
			{SellerID: 1, UnitPrice: d("100"), DiscountType: model.DiscountFlat, Quantity: 1},
		},
		TotalPrice: d("100"),
	})
	require.NoError(t, err)
	return id
}

// --- tests ---

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	svc := New(&fakeTx{}, repo, &mockSettler{})

	o, err := svc.Create(ctx, CreateReq{
		Items: []model.OrderItem{
			{SellerID: 1, UnitPrice: d("100"), DiscountType: model.DiscountFlat, Quantity: 1},
			{SellerID: 2, UnitPrice: d("50"), Discount: d("10"), DiscountType: model.DiscountFlat, Quantity: 1},
		},
		ShippingCost: d("5"),
		CouponAmount: d("15"),
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderPending, o.Status)
	require.Equal(t, model.PaymentPending, o.PaymentStatus)
	require.False(t, o.Settled)
	require.True(t, o.TotalPrice.Equal(d("130")), "got %s", o.TotalPrice) // 100 + 40 + 5 - 15
}

func TestCreate_NoItems(t *testing.T) {
	svc := New(&fakeTx{}, newMemOrders(), &mockSettler{})
	_, err := svc.Create(context.Background(), CreateReq{})
	require.Error(t, err)
	require.Equal(t, model.ErrInvalidInput, model.Code(err))
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&fakeTx{}, newMemOrders(), &mockSettler{})
	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	require.Equal(t, model.ErrNotFound, model.Code(err))
}

// every (from, to) pair behaves per the forward-edge graph, and a
// rejected transition never moves the status
func TestSetStatus_TransitionTable(t *testing.T) {
	ctx := context.Background()
	all := []model.OrderStatus{
		model.OrderPending, model.OrderConfirmed, model.OrderProcessing,
		model.OrderShipped, model.OrderDelivered, model.OrderCancelled, model.OrderReturned,
	}
	legal := map[model.OrderStatus][]model.OrderStatus{
		model.OrderPending:    {model.OrderConfirmed, model.OrderCancelled},
		model.OrderConfirmed:  {model.OrderProcessing, model.OrderCancelled},
		model.OrderProcessing: {model.OrderShipped, model.OrderCancelled},
		model.OrderShipped:    {model.OrderDelivered},
		model.OrderDelivered:  {model.OrderReturned},
	}
	isLegal := func(from, to model.OrderStatus) bool {
		for _, s := range legal[from] {
			if s == to {
				return true
			}
		}
		return false
	}

	for _, from := range all {
		for _, to := range all {
			repo := newMemOrders()
			svc := New(&fakeTx{}, repo, &mockSettler{})
			id := seedOrder(t, repo, from, model.PaymentPaid, false)

			got, err := svc.SetStatus(ctx, id, to)
			switch {
			case isLegal(from, to):
				require.NoError(t, err, "%s -> %s", from, to)
				require.Equal(t, to, got.Status)
			case from == model.OrderDelivered:
				require.Equal(t, model.ErrFrozen, model.Code(err), "%s -> %s", from, to)
			default:
				require.Equal(t, model.ErrIllegalTransition, model.Code(err), "%s -> %s", from, to)
			}

			if err != nil {
				after, gerr := svc.Get(ctx, id)
				require.NoError(t, gerr)
				require.Equal(t, from, after.Status, "rejected %s -> %s moved the status", from, to)
			}
		}
	}
}

func TestSetStatus_ShipUnpaidRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	svc := New(&fakeTx{}, repo, &mockSettler{})
	id := seedOrder(t, repo, model.OrderConfirmed, model.PaymentPending, false)

	_, err := svc.SetStatus(ctx, id, model.OrderProcessing)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, id, model.OrderShipped)
	require.Error(t, err)
	require.Equal(t, model.ErrPaymentRequired, model.Code(err))

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.OrderProcessing, after.Status)
}

func TestSetStatus_CODShipsUnpaid(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	settler := &mockSettler{}
	svc := New(&fakeTx{}, repo, settler)
	id := seedOrder(t, repo, model.OrderProcessing, model.PaymentPending, true)

	_, err := svc.SetStatus(ctx, id, model.OrderShipped)
	require.NoError(t, err)

	got, err := svc.SetStatus(ctx, id, model.OrderDelivered)
	require.NoError(t, err)
	require.Equal(t, model.OrderDelivered, got.Status)
	// unpaid COD delivery must not settle yet
	require.False(t, got.Settled)
	require.Equal(t, 0, settler.calls)
}

func TestSetStatus_CancelDeliveredFrozen(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	svc := New(&fakeTx{}, repo, &mockSettler{})
	id := seedOrder(t, repo, model.OrderDelivered, model.PaymentPaid, false)

	_, err := svc.SetStatus(ctx, id, model.OrderCancelled)
	require.Error(t, err)
	require.Equal(t, model.ErrFrozen, model.Code(err))
	require.Contains(t, err.Error(), "delivered")
}

func TestSetStatus_DeliverySettlesOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	settler := &mockSettler{}
	svc := New(&fakeTx{}, repo, settler)
	id := seedOrder(t, repo, model.OrderShipped, model.PaymentPaid, false)

	got, err := svc.SetStatus(ctx, id, model.OrderDelivered)
	require.NoError(t, err)
	require.True(t, got.Settled)
	require.Equal(t, 1, settler.calls)

	// a retried delivery is rejected and must not re-credit
	_, err = svc.SetStatus(ctx, id, model.OrderDelivered)
	require.Error(t, err)
	require.Equal(t, model.ErrFrozen, model.Code(err))
	require.Equal(t, 1, settler.calls)
}

func TestSetStatus_SettleFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	settler := &mockSettler{fail: errors.New("wallet down")}
	svc := New(&fakeTx{}, repo, settler)
	id := seedOrder(t, repo, model.OrderShipped, model.PaymentPaid, false)

	_, err := svc.SetStatus(ctx, id, model.OrderDelivered)
	require.Error(t, err)

	after, gerr := svc.Get(ctx, id)
	require.NoError(t, gerr)
	require.False(t, after.Settled)
}

func TestSetPaymentStatus_PaidIsImmutable(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	svc := New(&fakeTx{}, repo, &mockSettler{})
	id := seedOrder(t, repo, model.OrderConfirmed, model.PaymentPaid, false)

	for _, to := range []model.PaymentStatus{model.PaymentPending, model.PaymentFailed} {
		_, err := svc.SetPaymentStatus(ctx, id, to)
		require.Error(t, err)
		require.Equal(t, model.ErrAlreadyPaidImmutable, model.Code(err))
	}

	// paid -> paid is a no-op, not an error
	got, err := svc.SetPaymentStatus(ctx, id, model.PaymentPaid)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, got.PaymentStatus)
}

func TestSetPaymentStatus_FreeBeforePaid(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	svc := New(&fakeTx{}, repo, &mockSettler{})
	id := seedOrder(t, repo, model.OrderPending, model.PaymentPending, false)

	got, err := svc.SetPaymentStatus(ctx, id, model.PaymentFailed)
	require.NoError(t, err)
	require.Equal(t, model.PaymentFailed, got.PaymentStatus)

	got, err = svc.SetPaymentStatus(ctx, id, model.PaymentPaid)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, got.PaymentStatus)
}

func TestSetPaymentStatus_RetroactiveSettlement(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrders()
	settler := &mockSettler{}
	svc := New(&fakeTx{}, repo, settler)
	// COD order delivered before the gateway confirmed
	id := seedOrder(t, repo, model.OrderDelivered, model.PaymentPending, true)

	got, err := svc.SetPaymentStatus(ctx, id, model.PaymentPaid)
	require.NoError(t, err)
	require.True(t, got.Settled)
	require.Equal(t, 1, settler.calls)

	// duplicate notification settles nothing further
	_, err = svc.SetPaymentStatus(ctx, id, model.PaymentPaid)
	require.NoError(t, err)
	require.Equal(t, 1, settler.calls)
}
