package shared

import "errors"

var (
	// ErrNotFound indicates a target or referenced document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique field collided with an existing document.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrConflict indicates the operation clashes with dependent documents.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error pairs a sentinel kind with the message shown to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Kind == nil {
		return e.Message
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound builds an ErrNotFound with a client message.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Duplicate builds an ErrDuplicate with a client message.
func Duplicate(msg string) error { return &Error{Kind: ErrDuplicate, Message: msg} }

// Conflict builds an ErrConflict with a client message.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Validation builds an ErrValidation with a client message.
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Unauthorized builds an ErrUnauthorized with a client message.
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// Forbidden builds an ErrForbidden with a client message.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// UserSafeMessage returns the client message carried by err, or fallback when
// err carries none. Storage errors never leak through it.
func UserSafeMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// MsgNoUpdateFields is reported when an update names no whitelisted field.
const MsgNoUpdateFields = "No valid fields provided for update."
