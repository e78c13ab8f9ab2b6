package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource was modified concurrently (stale version).
var ErrConflict = errors.New("resource was modified concurrently")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal is returned when an unexpected infrastructure failure occurred.
var ErrInternal = errors.New("internal error")

// ErrEntriesOutsidePeriod indicates a period date change that would leave its journal entries outside it.
var ErrEntriesOutsidePeriod = fmt.Errorf("%w: accounting period has journal entries outside the new date range", ErrValidation)

// Ledger error kinds.
var (
	ErrImbalancedEntry        = errors.New("journal entry is not balanced")
	ErrMissingSide            = errors.New("journal entry must contain both a debit and a credit")
	ErrTooFewLines            = errors.New("journal entry must have at least two lines")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyClosed          = errors.New("accounting period is already closed")
	ErrClosingChecksFailed    = errors.New("closing checks failed")
	ErrOverlappingPeriod      = errors.New("accounting period overlaps an existing period")
	ErrInvalidDateRange       = errors.New("period end date must be after start date")
	ErrPeriodClosed           = errors.New("accounting period is closed")
)

// Kind names an error category as surfaced to API clients.
type Kind string

const (
	KindValidation             Kind = "ValidationError"
	KindImbalancedEntry        Kind = "ImbalancedEntry"
	KindMissingSide            Kind = "MissingSide"
	KindTooFewLines            Kind = "TooFewLines"
	KindNotFound               Kind = "NotFound"
	KindInvalidStateTransition Kind = "InvalidStateTransition"
	KindAlreadyClosed          Kind = "AlreadyClosed"
	KindClosingChecksFailed    Kind = "ClosingChecksFailed"
	KindOverlappingPeriod      Kind = "OverlappingPeriod"
	KindInvalidDateRange       Kind = "InvalidDateRange"
	KindPeriodClosed           Kind = "PeriodClosed"
	KindConflict               Kind = "Conflict"
	KindDuplicate              Kind = "Duplicate"
	KindUnauthorized           Kind = "Unauthorized"
	KindInternal               Kind = "InternalError"
)

var kindSentinels = map[Kind]error{
	KindValidation:             ErrValidation,
	KindImbalancedEntry:        ErrImbalancedEntry,
	KindMissingSide:            ErrMissingSide,
	KindTooFewLines:            ErrTooFewLines,
	KindNotFound:               ErrNotFound,
	KindInvalidStateTransition: ErrInvalidStateTransition,
	KindAlreadyClosed:          ErrAlreadyClosed,
	KindClosingChecksFailed:    ErrClosingChecksFailed,
	KindOverlappingPeriod:      ErrOverlappingPeriod,
	KindInvalidDateRange:       ErrInvalidDateRange,
	KindPeriodClosed:           ErrPeriodClosed,
	KindConflict:               ErrConflict,
	KindDuplicate:              ErrDuplicate,
	KindUnauthorized:           ErrUnauthorized,
	KindInternal:               ErrInternal,
}

// LedgerError is a recoverable business error carrying a kind, a human readable
// message and optional structured details (e.g. totalDebit/totalCredit/difference).
// It unwraps to the sentinel error of its kind so callers can use errors.Is.
type LedgerError struct {
	Kind    Kind
	Message string
	Details map[string]any
}

// NewLedgerError creates a LedgerError of the given kind.
func NewLedgerError(kind Kind, message string, details map[string]any) *LedgerError {
	return &LedgerError{Kind: kind, Message: message, Details: details}
}

// Newf creates a LedgerError without details using a format string.
func Newf(kind Kind, format string, args ...any) *LedgerError {
	return &LedgerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *LedgerError) Error() string {
	return e.Message
}

func (e *LedgerError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// KindOf resolves the API error kind for any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// AppError wraps infrastructure failures with an HTTP-ish code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}
