package types

import "errors"

// ErrorKind classifies a domain failure. Every error surfaced by a service
// carries exactly one kind; adapters map kinds to transport codes.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindPermission   ErrorKind = "PERMISSION"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
)

// Error is a structured domain error: a kind plus a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind carried by err, unwrapping as needed.
// Errors without a kind report the empty string.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	ErrUserNotFound    = NewError(KindNotFound, "user not found")
	ErrRideNotFound    = NewError(KindNotFound, "ride request not found")
	ErrBookingNotFound = NewError(KindNotFound, "booking not found")
	ErrReviewNotFound  = NewError(KindNotFound, "review not found")
	ErrContactNotFound = NewError(KindNotFound, "no emergency contact set")
	ErrProfileNotFound = NewError(KindNotFound, "driver profile not found")

	ErrNotRideOwner      = NewError(KindPermission, "only the requesting customer may do this")
	ErrNotAssignedDriver = NewError(KindPermission, "only the assigned driver may do this")
	ErrNotCancelParty    = NewError(KindPermission, "only the customer or the assigned driver may cancel")
	ErrNotBookingParty   = NewError(KindPermission, "only the customer or the assigned driver may do this")
	ErrNotReviewAuthor   = NewError(KindPermission, "only the review author may delete it")
	ErrDriverRoleOnly    = NewError(KindPermission, "only drivers may do this")
	ErrCustomerRoleOnly  = NewError(KindPermission, "only customers may do this")

	ErrRideNotPending    = NewError(KindInvalidState, "ride request is not pending")
	ErrRideFinalized     = NewError(KindInvalidState, "ride request is already finalized")
	ErrBookingNotDone    = NewError(KindInvalidState, "booking is not completed yet")
	ErrBookingFinalized  = NewError(KindConflict, "booking is already finalized")
	ErrRideAlreadyTaken  = NewError(KindConflict, "ride request was accepted by another driver")
	ErrReviewExists      = NewError(KindConflict, "booking already has a review")
	ErrInvalidRating     = NewError(KindValidation, "rating must be between 1 and 5")
	ErrInvalidStatus     = NewError(KindValidation, "status must be COMPLETED or CANCELLED")
	ErrLocationRequired  = NewError(KindValidation, "current location is required")
	ErrEmptyRideLocation = NewError(KindValidation, "pickup and dropoff are required")
)
