// repository/wallet/repo.go
package walletrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
)

type Repo interface {
	// EnsureWallet lazily creates the seller's wallet row.
	EnsureWallet(ctx context.Context, tx pgx.Tx, sellerID int64) error
	GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, sellerID int64) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, sellerID int64, newBalance decimal.Decimal) error
	InsertLedger(ctx context.Context, tx pgx.Tx, e *model.LedgerEntry) error

	BalanceOf(ctx context.Context, sellerID int64) (decimal.Decimal, error)
	ListLedger(ctx context.Context, sellerID int64, limit, offset int) ([]model.LedgerEntry, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db: db} }

func (r *repo) EnsureWallet(ctx context.Context, tx pgx.Tx, sellerID int64) error {
	const q = `INSERT INTO seller_wallets (seller_id) VALUES ($1) ON CONFLICT (seller_id) DO NOTHING`
	_, err := tx.Exec(ctx, q, sellerID)
	return err
}

func (r *repo) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, sellerID int64) (decimal.Decimal, error) {
	const q = `SELECT balance FROM seller_wallets WHERE seller_id=$1 FOR UPDATE`
	var bal decimal.Decimal
	err := tx.QueryRow(ctx, q, sellerID).Scan(&bal)
	return bal, err
}

func (r *repo) UpdateBalance(ctx context.Context, tx pgx.Tx, sellerID int64, newBalance decimal.Decimal) error {
	const q = `UPDATE seller_wallets SET balance=$2 WHERE seller_id=$1`
	_, err := tx.Exec(ctx, q, sellerID, newBalance)
	return err
}

func (r *repo) InsertLedger(ctx context.Context, tx pgx.Tx, e *model.LedgerEntry) error {
	const q = `
INSERT INTO wallet_ledger (seller_id, entry_type, amount, balance_after, description, ref_table, ref_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at`
	var refTable *string
	if e.RefTable != "" {
		refTable = &e.RefTable
	}
	return tx.QueryRow(ctx, q,
		e.SellerID, string(e.EntryType), e.Amount, e.BalanceAfter, e.Description, refTable, e.RefID,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *repo) BalanceOf(ctx context.Context, sellerID int64) (decimal.Decimal, error) {
	const q = `SELECT balance FROM seller_wallets WHERE seller_id=$1`
	var bal decimal.Decimal
	err := r.db.QueryRow(ctx, q, sellerID).Scan(&bal)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil // no wallet yet means zero, not an error
	}
	return bal, err
}

func (r *repo) ListLedger(ctx context.Context, sellerID int64, limit, offset int) ([]model.LedgerEntry, error) {
	const q = `
SELECT id, seller_id, entry_type, amount, balance_after, description, ref_table, ref_id, created_at
FROM wallet_ledger
WHERE seller_id=$1
ORDER BY id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, q, sellerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var (
			e        model.LedgerEntry
			etype    string
			refTable *string
		)
		if err := rows.Scan(&e.ID, &e.SellerID, &etype, &e.Amount, &e.BalanceAfter, &e.Description, &refTable, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EntryType = model.LedgerType(etype)
		if refTable != nil {
			e.RefTable = *refTable
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
