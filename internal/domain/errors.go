package domain

import "errors"

// Error kinds. Every error a service returns to the delivery layer either wraps
// one of these or is treated as an internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Sentinel errors for specific outcomes. Their messages are safe to return to clients.
var (
	ErrEventNotFound      = NewError(ErrNotFound, "Event not found")
	ErrUserNotFound       = NewError(ErrNotFound, "User not found")
	ErrInviteeNotFound    = NewError(ErrNotFound, "User to invite not found")
	ErrInvitationNotFound = NewError(ErrNotFound, "Invitation not found")

	ErrEditForbidden   = NewError(ErrForbidden, "You can only edit your own events")
	ErrDeleteForbidden = NewError(ErrForbidden, "You can only delete your own events")
	ErrNotInviter      = NewError(ErrForbidden, "You can only invite users to your own events")
	ErrNotInvitee      = NewError(ErrForbidden, "You can only respond to your own invitations")

	ErrAlreadyInvited    = NewError(ErrConflict, "User has already been invited to this event")
	ErrDuplicateEmail    = NewError(ErrConflict, "Email already in use")
	ErrDuplicateUsername = NewError(ErrConflict, "Username already in use")

	ErrInvalidCredentials = NewError(ErrUnauthorized, "Invalid credentials")
)

// Error is a client-facing error message tagged with one of the error kinds above.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Invalid returns a validation error with the given message.
func Invalid(message string) *Error {
	return NewError(ErrInvalidInput, message)
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }
