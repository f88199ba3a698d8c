package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePendingConflict_UniqueViolationOnPendingIndex(t *testing.T) {
	facilityID := "fac-1"
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: pendingFacilityConstraint,
	}

	translated := translatePendingConflict(pgErr, &facilityID)
	require.Error(t, translated)

	var pending *apperrors.FacilityHasPendingJournalError
	require.ErrorAs(t, translated, &pending)
	assert.Equal(t, "fac-1", pending.FacilityID)
}

func TestTranslatePendingConflict_WrappedError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: pendingFacilityConstraint,
	}
	wrapped := fmt.Errorf("exec insert: %w", pgErr)

	translated := translatePendingConflict(wrapped, nil)
	require.Error(t, translated)

	// A multi-facility journal carries no facility ID to report.
	var pending *apperrors.FacilityHasPendingJournalError
	require.ErrorAs(t, translated, &pending)
	assert.Empty(t, pending.FacilityID)
}

func TestTranslatePendingConflict_OtherConstraint(t *testing.T) {
	facilityID := "fac-1"
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "journal_rows_pkey",
	}

	assert.NoError(t, translatePendingConflict(pgErr, &facilityID))
}

func TestTranslatePendingConflict_NonUniqueViolation(t *testing.T) {
	facilityID := "fac-1"
	pgErr := &pgconn.PgError{
		Code:           "23503",
		ConstraintName: pendingFacilityConstraint,
	}

	assert.NoError(t, translatePendingConflict(pgErr, &facilityID))
}

func TestTranslatePendingConflict_PlainError(t *testing.T) {
	assert.NoError(t, translatePendingConflict(errors.New("connection reset"), nil))
}
