package withdrawal

import "github.com/shopspring/decimal"

type CreateWithdrawalReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type DecideReq struct {
	AdminNote string `json:"admin_note"`
}
