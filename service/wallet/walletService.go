package wallet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	walletrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/wallet"
)

// Tx runs a function inside one atomic storage transaction,
// retrying bounded times on concurrency conflicts.
type Tx interface {
	InTxRetry(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Ref ties a ledger entry to the row that caused it; together with the
// seller it is the entry's idempotency key.
type Ref struct {
	Table string
	ID    int64
}

type Service interface {
	// PostTx is the only ledger mutation primitive. It locks the seller's
	// wallet, checks debits against the live balance and appends exactly
	// one entry, all inside the caller's transaction.
	PostTx(ctx context.Context, tx pgx.Tx, sellerID int64, typ model.LedgerType, amount decimal.Decimal, description string, ref *Ref) (*model.LedgerEntry, error)

	// Adjust posts a standalone entry in its own transaction (admin use).
	Adjust(ctx context.Context, sellerID int64, typ model.LedgerType, amount decimal.Decimal, description string) (*model.LedgerEntry, error)

	BalanceOf(ctx context.Context, sellerID int64) (decimal.Decimal, error)
	Ledger(ctx context.Context, sellerID int64, limit, offset int) ([]model.LedgerEntry, error)
}

type service struct {
	db Tx
	r  walletrepo.Repo
}

func New(db Tx, r walletrepo.Repo) Service { return &service{db: db, r: r} }

func (s *service) PostTx(ctx context.Context, tx pgx.Tx, sellerID int64, typ model.LedgerType, amount decimal.Decimal, description string, ref *Ref) (*model.LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, model.Errf(model.ErrInvalidAmount, "amount %s must be positive", amount)
	}

	if err := s.r.EnsureWallet(ctx, tx, sellerID); err != nil {
		return nil, fmt.Errorf("ensure wallet: %w", err)
	}

	bal, err := s.r.GetBalanceForUpdate(ctx, tx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}

	var newBal decimal.Decimal
	switch typ {
	case model.LedgerCredit:
		newBal = bal.Add(amount)
	case model.LedgerDebit:
		if amount.GreaterThan(bal) {
			return nil, model.Errf(model.ErrInsufficientFunds, "balance %s, requested %s", bal, amount)
		}
		newBal = bal.Sub(amount)
	default:
		return nil, model.Errf(model.ErrInvalidInput, "unknown ledger type %q", typ)
	}

	if err := s.r.UpdateBalance(ctx, tx, sellerID, newBal); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	e := &model.LedgerEntry{
		SellerID:     sellerID,
		EntryType:    typ,
		Amount:       amount,
		BalanceAfter: newBal,
		Description:  description,
	}
	if ref != nil {
		e.RefTable = ref.Table
		refID := ref.ID
		e.RefID = &refID
	}
	if err := s.r.InsertLedger(ctx, tx, e); err != nil {
		return nil, fmt.Errorf("insert ledger: %w", err)
	}
	return e, nil
}

func (s *service) Adjust(ctx context.Context, sellerID int64, typ model.LedgerType, amount decimal.Decimal, description string) (*model.LedgerEntry, error) {
	var entry *model.LedgerEntry
	err := s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
		e, err := s.PostTx(ctx, tx, sellerID, typ, amount, description, nil)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) BalanceOf(ctx context.Context, sellerID int64) (decimal.Decimal, error) {
	return s.r.BalanceOf(ctx, sellerID)
}

func (s *service) Ledger(ctx context.Context, sellerID int64, limit, offset int) ([]model.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.r.ListLedger(ctx, sellerID, limit, offset)
}
