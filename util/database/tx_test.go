package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
)

func TestMapError_NoRows(t *testing.T) {
	err := MapError(pgx.ErrNoRows)
	require.Equal(t, model.ErrNotFound, model.Code(err))

	// wrapped by a repo before reaching the mapper
	err = MapError(fmt.Errorf("get order: %w", pgx.ErrNoRows))
	require.Equal(t, model.ErrNotFound, model.Code(err))
}

func TestMapError_ConcurrencyCodes(t *testing.T) {
	for _, code := range []string{
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.UniqueViolation,
	} {
		err := MapError(&pgconn.PgError{Code: code})
		require.Equal(t, model.ErrConcurrencyConflict, model.Code(err), "sqlstate %s", code)
	}
}

func TestMapError_Passthrough(t *testing.T) {
	require.NoError(t, MapError(nil))

	plain := errors.New("connection refused")
	require.Same(t, plain, MapError(plain))

	// other pg errors keep their identity
	pgErr := &pgconn.PgError{Code: pgerrcode.NotNullViolation}
	require.Same(t, error(pgErr), MapError(pgErr))
	require.Equal(t, model.ErrCode(""), model.Code(MapError(pgErr)))
}
