// Package settlement owns the rule "when to post a ledger entry" for
// order credits: one credit per seller per delivered, paid order.
package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
	orderrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/order"
	walletsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/wallet"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/util/pricing"
)

const sweepBatch = 100

type Tx interface {
	InTxRetry(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type Service interface {
	// CreditOrderTx posts one wallet credit per seller in the order,
	// net of commission, inside the caller's transaction. The caller is
	// responsible for the settled-flag guard in the same transaction.
	CreditOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) error

	// SweepUnsettled settles delivered, paid, unsettled orders. Safety
	// net for the retroactive payment-after-delivery trigger.
	SweepUnsettled(ctx context.Context) (int, error)

	// Run drives SweepUnsettled on a ticker until ctx is done.
	Run(ctx context.Context, every time.Duration)
}

type service struct {
	db         Tx
	orders     orderrepo.Repo
	wallet     walletsvc.Service
	commission decimal.Decimal // percent, 0..100
	log        *slog.Logger
}

func New(db Tx, orders orderrepo.Repo, wallet walletsvc.Service, commissionPct decimal.Decimal, log *slog.Logger) Service {
	return &service{db: db, orders: orders, wallet: wallet, commission: commissionPct, log: log}
}

func (s *service) CreditOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	shares, err := s.sellerShares(o)
	if err != nil {
		return err
	}

	// stable posting order across retries
	sellerIDs := lo.Keys(shares)
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	factor := decimal.NewFromInt(100).Sub(s.commission).Div(decimal.NewFromInt(100))
	for _, sellerID := range sellerIDs {
		credit := shares[sellerID].Mul(factor).Round(2)
		if !credit.IsPositive() {
			continue
		}
		ref := &walletsvc.Ref{Table: "orders", ID: o.ID}
		desc := fmt.Sprintf("order #%d settlement", o.ID)
		if _, err := s.wallet.PostTx(ctx, tx, sellerID, model.LedgerCredit, credit, desc, ref); err != nil {
			return fmt.Errorf("credit seller %d for order %d: %w", sellerID, o.ID, err)
		}
	}
	return nil
}

// sellerShares sums effective line totals per seller.
func (s *service) sellerShares(o *model.Order) (map[int64]decimal.Decimal, error) {
	grouped := lo.GroupBy(o.Items, func(it model.OrderItem) int64 { return it.SellerID })

	shares := make(map[int64]decimal.Decimal, len(grouped))
	for sellerID, items := range grouped {
		sum := decimal.Zero
		for _, it := range items {
			line, err := pricing.LineTotal(it)
			if err != nil {
				return nil, fmt.Errorf("order %d item %d: %w", o.ID, it.ID, err)
			}
			sum = sum.Add(line)
		}
		shares[sellerID] = sum
	}
	return shares, nil
}

func (s *service) SweepUnsettled(ctx context.Context) (int, error) {
	ids, err := s.orders.ListUnsettledDelivered(ctx, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list unsettled: %w", err)
	}

	settled := 0
	for _, id := range ids {
		var did bool
		err := s.db.InTxRetry(ctx, func(tx pgx.Tx) error {
			did = false
			o, err := s.orders.GetForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			// re-check under lock; another writer may have settled it
			if o.Settled || o.Status != model.OrderDelivered || o.PaymentStatus != model.PaymentPaid {
				return nil
			}
			if err := s.CreditOrderTx(ctx, tx, o); err != nil {
				return err
			}
			if _, err := s.orders.MarkSettled(ctx, tx, id); err != nil {
				return err
			}
			did = true
			return nil
		})
		if err != nil {
			s.log.Error("sweep settle failed", "order_id", id, "err", err)
			continue
		}
		if did {
			settled++
		}
	}
	return settled, nil
}

func (s *service) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.SweepUnsettled(ctx)
			if err != nil {
				s.log.Error("settlement sweep", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info("settlement sweep", "settled", n)
			}
		}
	}
}
