package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: `Key (email)=(x@unimet.edu.ve) already exists.`,
	}
	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "email", appErr.Field)
}

func TestMapDBError_ContextErrors(t *testing.T) {
	assert.True(t, IsCancelled(MapDBError(context.Canceled)))

	var appErr *AppError
	require.True(t, errors.As(MapDBError(context.DeadlineExceeded), &appErr))
	assert.Equal(t, ErrCodeTimeout, appErr.Code)
}

func TestMapDBError_PassThrough(t *testing.T) {
	plain := errors.New("dial failure")
	assert.Equal(t, plain, MapDBError(plain))
	assert.Nil(t, MapDBError(nil))
}
