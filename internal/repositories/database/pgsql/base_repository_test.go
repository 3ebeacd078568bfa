package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, apperrors.ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "fk_parent"}, apperrors.ErrValidation},
		{"check violation", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "chk_one_side"}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err, "account"), tt.want)
		})
	}

	assert.NoError(t, mapPgError(nil, "account"))

	other := errors.New("connection reset")
	mapped := mapPgError(other, "account")
	assert.ErrorIs(t, mapped, other)
	assert.NotErrorIs(t, mapped, apperrors.ErrNotFound)
}

func TestExpectOne(t *testing.T) {
	assert.NoError(t, expectOne(pgconn.NewCommandTag("UPDATE 1"), "entry"))
	assert.ErrorIs(t, expectOne(pgconn.NewCommandTag("UPDATE 0"), "entry"), apperrors.ErrNotFound)
}
