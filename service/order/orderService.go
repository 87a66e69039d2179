package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	orderrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/order"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/util/pricing"
)

type Tx interface {
	InTxRetry(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Settler posts per-seller credits for an order inside the caller's
// transaction.
type Settler interface {
	CreditOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) error
}

// CreateReq is what the order-placement collaborator supplies.
type CreateReq struct {
	Items        []model.OrderItem
	ShippingCost decimal.Decimal
	CouponAmount decimal.Decimal
	COD          bool
}

type Service interface {
	// Create inserts a new order in PENDING/PENDING.
	Create(ctx context.Context, req CreateReq) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)

	// SetStatus moves the order along the forward edges. Reaching
	// DELIVERED settles seller wallets in the same transaction.
	SetStatus(ctx context.Context, id int64, newStatus model.OrderStatus) (*model.Order, error)

	// SetPaymentStatus updates the payment sub-state. PAID after
	// delivery retroactively settles.
	SetPaymentStatus(ctx context.Context, id int64, newStatus model.PaymentStatus) (*model.Order, error)
}

type service struct {
	db      Tx
	r       orderrepo.Repo
	settler Settler
}

func New(db Tx, r orderrepo.Repo, settler Settler) Service {
	return &service{db: db, r: r, settler: settler}
}

func (s *service) Create(ctx context.Context, req CreateReq) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, model.Errf(model.ErrInvalidInput, "order needs at least one item")
	}
	for _, it := range req.Items {
		if it.SellerID <= 0 {
			return nil, model.Errf(model.ErrInvalidInput, "item seller id %d invalid", it.SellerID)
		}
	}

	total, err := pricing.OrderTotal(req.Items, req.ShippingCost, req.CouponAmount)
	if err != nil {
		return nil, err
	}

	o := &model.Order{
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
		COD:           req.COD,
		Items:         req.Items,
		TotalPrice:    total,
		ShippingCost:  req.ShippingCost,
		CouponAmount:  req.CouponAmount,
	}

	var id int64
	err = s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
		id, err = s.r.Insert(ctx, tx, o)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id int64) (*model.Order, error) {
	o, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// checkTransition enforces the status graph. FROZEN is reported for any
// move out of DELIVERED except RETURNED; everything else off the graph
// is ILLEGAL_TRANSITION.
func checkTransition(o *model.Order, to model.OrderStatus) error {
	if o.Status == model.OrderDelivered && to != model.OrderReturned {
		return model.Errf(model.ErrFrozen, "order %d is delivered, only a return may follow", o.ID)
	}
	if !model.LegalTransition(o.Status, to) {
		return model.Errf(model.ErrIllegalTransition, "order %d cannot move %s -> %s", o.ID, o.Status, to)
	}
	if model.StatusNeedsPayment(to) && !o.COD && o.PaymentStatus != model.PaymentPaid {
		return model.Errf(model.ErrPaymentRequired, "order %d payment status is %s", o.ID, o.PaymentStatus)
	}
	return nil
}

func (s *service) SetStatus(ctx context.Context, id int64, newStatus model.OrderStatus) (*model.Order, error) {
	err := s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
		o, err := s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(o, newStatus); err != nil {
			return err
		}
		if err := s.r.UpdateStatus(ctx, tx, id, newStatus); err != nil {
			return err
		}
		// COD orders may arrive unpaid; those settle when payment lands
		if newStatus == model.OrderDelivered && !o.Settled && o.PaymentStatus == model.PaymentPaid {
			return s.settle(ctx, tx, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) SetPaymentStatus(ctx context.Context, id int64, newStatus model.PaymentStatus) (*model.Order, error) {
	err := s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
		o, err := s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if o.PaymentStatus == model.PaymentPaid && newStatus != model.PaymentPaid {
			return model.Errf(model.ErrAlreadyPaidImmutable, "order %d is already paid", o.ID)
		}
		if err := s.r.UpdatePaymentStatus(ctx, tx, id, newStatus); err != nil {
			return err
		}
		// payment arriving after delivery settles retroactively
		if newStatus == model.PaymentPaid && o.Status == model.OrderDelivered && !o.Settled {
			return s.settle(ctx, tx, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// settle credits sellers and flips the settled flag as one unit; the
// caller's transaction makes it atomic with the status write.
func (s *service) settle(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	if err := s.settler.CreditOrderTx(ctx, tx, o); err != nil {
		return fmt.Errorf("settle order %d: %w", o.ID, err)
	}
	ok, err := s.r.MarkSettled(ctx, tx, o.ID)
	if err != nil {
		return err
	}
	if !ok {
		// row is locked, so this means the flag was set before we loaded it
		return model.Errf(model.ErrConcurrencyConflict, "order %d settled concurrently", o.ID)
	}
	return nil
}
