package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
)

// retry ladder for serialization conflicts
var timeouts = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// MapError translates driver errors into coded domain errors.
// Unique violations are treated as concurrency conflicts too: the ledger's
// unique ref index only fires when two writers race the same settlement.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Err(model.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.UniqueViolation:
			return model.Errf(model.ErrConcurrencyConflict, "sqlstate %s", pgErr.Code)
		}
	}
	return err
}

// InTx runs fn inside a single transaction; any error rolls everything back.
func (d *DB) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return MapError(err)
	}
	return MapError(tx.Commit(ctx))
}

// InTxRetry is InTx with bounded retries on CONCURRENCY_CONFLICT; every
// other error surfaces immediately. The whole unit reruns, so a retried
// fn never observes partial state from a failed attempt.
func (d *DB) InTxRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = d.InTx(ctx, fn)
		if err == nil || model.Code(err) != model.ErrConcurrencyConflict {
			return err
		}
		if attempt >= len(timeouts) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(timeouts[attempt]):
		}
	}
}
