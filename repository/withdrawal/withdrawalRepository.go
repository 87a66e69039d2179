// repository/withdrawal/repo.go
package withdrawalrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/util/database"
)

type Repo interface {
	Insert(ctx context.Context, sellerID int64, amount decimal.Decimal) (*model.WithdrawalRequest, error)
	Get(ctx context.Context, id int64) (*model.WithdrawalRequest, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.WithdrawalRequest, error)
	// Decide flips PENDING to a terminal status; false means it was already decided.
	Decide(ctx context.Context, tx pgx.Tx, id int64, status model.WithdrawalStatus, note string) (bool, error)
	List(ctx context.Context, f model.WithdrawalFilter, limit, offset int) ([]model.WithdrawalRequest, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db: db} }

const cols = `id, seller_id, amount, status, admin_note, created_at, decided_at`

func (r *repo) Insert(ctx context.Context, sellerID int64, amount decimal.Decimal) (*model.WithdrawalRequest, error) {
	const q = `
INSERT INTO withdrawal_requests (seller_id, amount)
VALUES ($1,$2)
RETURNING ` + cols
	return scanReq(r.db.QueryRow(ctx, q, sellerID, amount))
}

func (r *repo) Get(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	req, err := scanReq(r.db.QueryRow(ctx, `SELECT `+cols+` FROM withdrawal_requests WHERE id=$1`, id))
	if err != nil {
		// pool-direct read, no tx wrapper to translate the driver error
		return nil, database.MapError(err)
	}
	return req, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.WithdrawalRequest, error) {
	return scanReq(tx.QueryRow(ctx, `SELECT `+cols+` FROM withdrawal_requests WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) Decide(ctx context.Context, tx pgx.Tx, id int64, status model.WithdrawalStatus, note string) (bool, error) {
	const q = `
UPDATE withdrawal_requests
SET status=$2, admin_note=$3, decided_at=NOW()
WHERE id=$1 AND status='PENDING'`
	tag, err := tx.Exec(ctx, q, id, string(status), note)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) List(ctx context.Context, f model.WithdrawalFilter, limit, offset int) ([]model.WithdrawalRequest, error) {
	q := `SELECT ` + cols + ` FROM withdrawal_requests WHERE 1=1`
	args := []any{}
	if f.SellerID != nil {
		args = append(args, *f.SellerID)
		q += fmt.Sprintf(" AND seller_id=$%d", len(args))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WithdrawalRequest
	for rows.Next() {
		req, err := scanReq(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanReq(row rowScanner) (*model.WithdrawalRequest, error) {
	var (
		req    model.WithdrawalRequest
		status string
	)
	err := row.Scan(&req.ID, &req.SellerID, &req.Amount, &status, &req.AdminNote, &req.CreatedAt, &req.DecidedAt)
	if err != nil {
		return nil, err
	}
	st, ok := model.ValidWithdrawalStatus(status)
	if !ok {
		return nil, fmt.Errorf("corrupt withdrawal status %q", status)
	}
	req.Status = st
	return &req, nil
}
