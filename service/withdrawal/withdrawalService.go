package withdrawal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	withdrawalrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/withdrawal"
	walletsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/wallet"
)

type Tx interface {
	InTxRetry(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type Service interface {
	// Create files a request in PENDING. The balance is not checked
	// here; it may change before an admin decides.
	Create(ctx context.Context, sellerID int64, amount decimal.Decimal) (*model.WithdrawalRequest, error)

	// Approve re-checks the balance at decision time, debits the wallet
	// and marks the request APPROVED as one atomic unit. Insufficient
	// funds leave the request PENDING.
	Approve(ctx context.Context, id int64, adminNote string) (*model.WithdrawalRequest, error)

	// Reject terminally rejects; no ledger effect.
	Reject(ctx context.Context, id int64, adminNote string) (*model.WithdrawalRequest, error)

	Get(ctx context.Context, id int64) (*model.WithdrawalRequest, error)
	List(ctx context.Context, f model.WithdrawalFilter, limit, offset int) ([]model.WithdrawalRequest, error)
}

type service struct {
	db     Tx
	r      withdrawalrepo.Repo
	wallet walletsvc.Service
}

func New(db Tx, r withdrawalrepo.Repo, wallet walletsvc.Service) Service {
	return &service{db: db, r: r, wallet: wallet}
}

func (s *service) Create(ctx context.Context, sellerID int64, amount decimal.Decimal) (*model.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, model.Errf(model.ErrInvalidAmount, "amount %s must be positive", amount)
	}
	req, err := s.r.Insert(ctx, sellerID, amount)
	if err != nil {
		return nil, fmt.Errorf("insert withdrawal: %w", err)
	}
	return req, nil
}

func (s *service) Approve(ctx context.Context, id int64, adminNote string) (*model.WithdrawalRequest, error) {
	err := s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
		// lock the request first: concurrent decisions queue up here and
		// the loser sees a terminal status
		req, err := s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Status != model.WithdrawalPending {
			return model.Errf(model.ErrAlreadyDecided, "request %d is %s", id, req.Status)
		}

		ref := &walletsvc.Ref{Table: "withdrawal_requests", ID: id}
		desc := fmt.Sprintf("withdrawal #%d payout", id)
		if _, err := s.wallet.PostTx(ctx, tx, req.SellerID, model.LedgerDebit, req.Amount, desc, ref); err != nil {
			return err
		}

		ok, err := s.r.Decide(ctx, tx, id, model.WithdrawalApproved, adminNote)
		if err != nil {
			return err
		}
		if !ok {
			return model.Errf(model.ErrAlreadyDecided, "request %d decided concurrently", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.r.Get(ctx, id)
}

func (s *service) Reject(ctx context.Context, id int64, adminNote string) (*model.WithdrawalRequest, error) {
	err := s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
		req, err := s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Status != model.WithdrawalPending {
			return model.Errf(model.ErrAlreadyDecided, "request %d is %s", id, req.Status)
		}
		ok, err := s.r.Decide(ctx, tx, id, model.WithdrawalRejected, adminNote)
		if err != nil {
			return err
		}
		if !ok {
			return model.Errf(model.ErrAlreadyDecided, "request %d decided concurrently", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.r.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	return s.r.Get(ctx, id)
}

func (s *service) List(ctx context.Context, f model.WithdrawalFilter, limit, offset int) ([]model.WithdrawalRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.r.List(ctx, f, limit, offset)
}
