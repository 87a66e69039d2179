// model/withdrawal.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

func ValidWithdrawalStatus(s string) (WithdrawalStatus, bool) {
	switch st := WithdrawalStatus(s); st {
	case WithdrawalPending, WithdrawalApproved, WithdrawalRejected:
		return st, true
	}
	return "", false
}

type WithdrawalRequest struct {
	ID        int64            `json:"id"`
	SellerID  int64            `json:"seller_id"`
	Amount    decimal.Decimal  `json:"amount"`
	Status    WithdrawalStatus `json:"status"`
	AdminNote string           `json:"admin_note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	DecidedAt *time.Time       `json:"decided_at,omitempty"`
}

// WithdrawalFilter: empty fields mean "any".
type WithdrawalFilter struct {
	SellerID *int64
	Status   *WithdrawalStatus
}
