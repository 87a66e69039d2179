// model/wallet.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerType string

const (
	LedgerCredit LedgerType = "CREDIT"
	LedgerDebit  LedgerType = "DEBIT"
)

// SellerWallet is the balance view; rows are created lazily on first credit.
type SellerWallet struct {
	SellerID int64           `json:"seller_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// LedgerEntry rows are append-only: BalanceAfter is the running sum,
// so for any seller balance == newest entry's BalanceAfter.
type LedgerEntry struct {
	ID           int64           `json:"id"`
	SellerID     int64           `json:"seller_id"`
	EntryType    LedgerType      `json:"entry_type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	RefTable     string          `json:"ref_table,omitempty"`
	RefID        *int64          `json:"ref_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
