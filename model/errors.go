// model/errors.go
package model

import (
	"errors"
	"fmt"
)

// ErrCode values are shared by the order, wallet and withdrawal services
// so controllers can map them to HTTP statuses in one place.
type ErrCode string

const (
	ErrInvalidInput         ErrCode = "INVALID_INPUT"
	ErrIllegalTransition    ErrCode = "ILLEGAL_TRANSITION"
	ErrFrozen               ErrCode = "FROZEN"
	ErrPaymentRequired      ErrCode = "PAYMENT_REQUIRED"
	ErrAlreadyPaidImmutable ErrCode = "ALREADY_PAID_IMMUTABLE"
	ErrInvalidAmount        ErrCode = "INVALID_AMOUNT"
	ErrInsufficientFunds    ErrCode = "INSUFFICIENT_FUNDS"
	ErrAlreadyDecided       ErrCode = "ALREADY_DECIDED"
	ErrConcurrencyConflict  ErrCode = "CONCURRENCY_CONFLICT"
	ErrNotFound             ErrCode = "NOT_FOUND"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}

func (e codedError) Code() ErrCode { return e.code }

// Errf builds a coded error whose message carries the live context
// (current status, balance, requested amount) so callers can explain
// the failure without a second query.
func Errf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

func Err(c ErrCode) error { return codedError{code: c} }

// Code extracts the error code, "" for plain errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
