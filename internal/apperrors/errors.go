package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// Entry numbers and exchange-rate (from, to, date) triples surface through this error.
var ErrDuplicate = errors.New("duplicate identifier")

// ErrPeriodState indicates that an operation is not allowed in the current state of a fiscal period.
var ErrPeriodState = errors.New("fiscal period state error")

// ErrNoRateAvailable indicates that no direct, inverse or triangulated exchange rate exists.
var ErrNoRateAvailable = errors.New("no exchange rate available")

// ErrConflict indicates that the resource is not in a state that allows the operation.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the caller lacks the capability for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an infrastructure failure should not leak details to the caller.
var ErrInternal = errors.New("internal error")

// Validation rules reported by ValidationError.
const (
	RuleMinLines        = "MIN_LINES"
	RuleAccountMissing  = "ACCOUNT_NOT_FOUND"
	RuleAccountInactive = "ACCOUNT_INACTIVE"
	RuleLineShape       = "LINE_SHAPE"
	RuleUnbalanced      = "UNBALANCED"
	RuleAccountCycle    = "ACCOUNT_CYCLE"
	RuleInvalidInput    = "INVALID_INPUT"
)

// Period state reasons reported by PeriodStateError.
const (
	ReasonNoPeriodDefined     = "NO_PERIOD_DEFINED"
	ReasonPeriodClosed        = "PERIOD_CLOSED"
	ReasonOpenEntriesExist    = "OPEN_ENTRIES_EXIST"
	ReasonPeriodsNotAllClosed = "PERIODS_NOT_ALL_CLOSED"
	ReasonPeriodOverlap       = "PERIOD_OVERLAP"
)

// ValidationError names the rule a request violated. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Rule, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for a generic input rule.
func NewValidationError(msg string) error {
	return &ValidationError{Rule: RuleInvalidInput, Message: msg}
}

// NewRuleViolation creates a ValidationError for a specific rule.
func NewRuleViolation(rule, format string, args ...any) error {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// PeriodStateError describes why a fiscal period blocks an operation. It matches ErrPeriodState.
type PeriodStateError struct {
	Reason  string
	Message string
}

func (e *PeriodStateError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPeriodState.Error(), e.Reason, e.Message)
}

func (e *PeriodStateError) Is(target error) bool {
	return target == ErrPeriodState
}

// NewPeriodStateError creates a PeriodStateError.
func NewPeriodStateError(reason, format string, args ...any) error {
	return &PeriodStateError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// AppError carries an HTTP-ish status code for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. Wrapped sentinels stay visible to errors.Is.
func NewAppError(code int, msg string, err error) *AppError {
	return &AppError{Code: code, Message: msg, Err: err}
}

// HasReason reports whether err is a PeriodStateError with the given reason.
func HasReason(err error, reason string) bool {
	var pse *PeriodStateError
	if errors.As(err, &pse) {
		return pse.Reason == reason
	}
	return false
}

// HasRule reports whether err is a ValidationError for the given rule.
func HasRule(err error, rule string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Rule == rule
	}
	return false
}

// HTTPStatus maps an error from the service layer to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPeriodState), errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNoRateAvailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
