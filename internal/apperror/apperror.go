package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the presentation layer can map it to a response.
type Kind string

const (
	KindItemNotFound          Kind = "ITEM_NOT_FOUND"
	KindItemInactive          Kind = "ITEM_INACTIVE"
	KindInvalidConfiguration  Kind = "INVALID_CONFIGURATION"
	KindMissingParameter      Kind = "MISSING_PARAMETER"
	KindUnavailable           Kind = "UNAVAILABLE"
	KindNotBookable           Kind = "NOT_BOOKABLE"
	KindOutsideAvailability   Kind = "OUTSIDE_AVAILABILITY"
	KindSlotConflict          Kind = "SLOT_CONFLICT"
	KindBookingNotFound       Kind = "BOOKING_NOT_FOUND"
	KindAlreadyCancelled      Kind = "ALREADY_CANCELLED"
	KindInvalidTransition     Kind = "INVALID_TRANSITION"
	KindNotFound              Kind = "NOT_FOUND"
	KindInvalidInput          Kind = "INVALID_INPUT"
	KindTransientStoreFailure Kind = "TRANSIENT_STORE_FAILURE"
	KindInternal              Kind = "INTERNAL"
)

// Error is a classified error. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, apperror.New(KindSlotConflict, "")) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Transient marks a store or connection failure the caller may retry.
// Errors that already carry a kind are returned unchanged.
func Transient(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(KindTransientStoreFailure, err, message)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind onto the status the API answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindItemNotFound, KindBookingNotFound, KindNotFound:
		return http.StatusNotFound
	case KindItemInactive, KindNotBookable, KindUnavailable, KindOutsideAvailability:
		return http.StatusUnprocessableEntity
	case KindSlotConflict, KindAlreadyCancelled, KindInvalidTransition:
		return http.StatusConflict
	case KindInvalidConfiguration, KindMissingParameter, KindInvalidInput:
		return http.StatusBadRequest
	case KindTransientStoreFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
