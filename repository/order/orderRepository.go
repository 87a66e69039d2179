// repository/order/repo.go
package orderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/util/database"
)

type Repo interface {
	Insert(ctx context.Context, tx pgx.Tx, o *model.Order) (int64, error)

	Get(ctx context.Context, id int64) (*model.Order, error)
	// GetForUpdate locks the order row; items are immutable so they load lock-free.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error)

	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id int64, status model.PaymentStatus) error
	// MarkSettled flips the settled flag; false means it was already set.
	MarkSettled(ctx context.Context, tx pgx.Tx, id int64) (bool, error)

	// ListUnsettledDelivered feeds the settlement sweep.
	ListUnsettledDelivered(ctx context.Context, limit int) ([]int64, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx pgx.Tx, o *model.Order) (int64, error) {
	const q = `
INSERT INTO orders (status, payment_status, cod, total_price, shipping_cost, coupon_amount)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	var id int64
	if err := tx.QueryRow(ctx, q,
		string(o.Status), string(o.PaymentStatus), o.COD,
		o.TotalPrice, o.ShippingCost, o.CouponAmount,
	).Scan(&id); err != nil {
		return 0, err
	}

	const qi = `
INSERT INTO order_items (order_id, seller_id, unit_price, discount, discount_type, quantity)
VALUES ($1,$2,$3,$4,$5,$6)`
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, qi, id, it.SellerID, it.UnitPrice, it.Discount, string(it.DiscountType), it.Quantity); err != nil {
			return 0, err
		}
	}
	return id, nil
}

const orderCols = `id, status, payment_status, cod, total_price, shipping_cost, coupon_amount, settled, created_at, updated_at`

func (r *repo) Get(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		// pool-direct read, no tx wrapper to translate the driver error
		return nil, database.MapError(err)
	}
	o.Items, err = r.items(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.items(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`, id, string(status))
	return err
}

func (r *repo) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id int64, status model.PaymentStatus) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET payment_status=$2, updated_at=NOW() WHERE id=$1`, id, string(status))
	return err
}

func (r *repo) MarkSettled(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx, `UPDATE orders SET settled=TRUE, updated_at=NOW() WHERE id=$1 AND settled=FALSE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) ListUnsettledDelivered(ctx context.Context, limit int) ([]int64, error) {
	const q = `
SELECT id FROM orders
WHERE status='DELIVERED' AND payment_status='PAID' AND settled=FALSE
ORDER BY id
LIMIT $1`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o               model.Order
		status, payment string
	)
	err := row.Scan(&o.ID, &status, &payment, &o.COD,
		&o.TotalPrice, &o.ShippingCost, &o.CouponAmount,
		&o.Settled, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	st, ok := model.ValidOrderStatus(status)
	if !ok {
		return nil, errors.New("corrupt order status " + status)
	}
	ps, ok := model.ValidPaymentStatus(payment)
	if !ok {
		return nil, errors.New("corrupt payment status " + payment)
	}
	o.Status, o.PaymentStatus = st, ps
	return &o, nil
}

func (r *repo) items(ctx context.Context, tx pgx.Tx, orderID int64) ([]model.OrderItem, error) {
	const q = `
SELECT id, order_id, seller_id, unit_price, discount, discount_type, quantity
FROM order_items
WHERE order_id=$1
ORDER BY id`

	var (
		rows pgx.Rows
		err  error
	)
	if tx != nil {
		rows, err = tx.Query(ctx, q, orderID)
	} else {
		rows, err = r.db.Query(ctx, q, orderID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			it    model.OrderItem
			dtype string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.SellerID, &it.UnitPrice, &it.Discount, &dtype, &it.Quantity); err != nil {
			return nil, err
		}
		it.DiscountType = model.DiscountType(dtype)
		items = append(items, it)
	}
	return items, rows.Err()
}
