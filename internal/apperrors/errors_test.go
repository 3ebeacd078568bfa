package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	verr := apperrors.NewRuleViolation(apperrors.RuleUnbalanced, "debits %s != credits %s", "100.00", "99.99")
	assert.ErrorIs(t, verr, apperrors.ErrValidation)
	assert.True(t, apperrors.HasRule(fmt.Errorf("wrapped: %w", verr), apperrors.RuleUnbalanced))
	assert.False(t, apperrors.HasRule(verr, apperrors.RuleMinLines))

	perr := apperrors.NewPeriodStateError(apperrors.ReasonOpenEntriesExist, "2 draft entries")
	assert.ErrorIs(t, perr, apperrors.ErrPeriodState)
	assert.NotErrorIs(t, perr, apperrors.ErrValidation)
	assert.True(t, apperrors.HasReason(perr, apperrors.ReasonOpenEntriesExist))
}

func TestAppErrorUnwrap(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to insert entry", apperrors.ErrDuplicate)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "failed to insert entry")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("account"), http.StatusNotFound},
		{"period", apperrors.NewPeriodStateError(apperrors.ReasonPeriodClosed, "closed"), http.StatusConflict},
		{"duplicate", fmt.Errorf("save: %w", apperrors.ErrDuplicate), http.StatusConflict},
		{"no rate", apperrors.ErrNoRateAvailable, http.StatusUnprocessableEntity},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"app error", apperrors.NewAppError(503, "db down", errors.New("dial")), 503},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.HTTPStatus(tt.err))
		})
	}
}
