package common

import "errors"

// ErrorKind classifies domain errors. Transports translate a kind into an
// outbound status through an explicit table, never by inspecting messages.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindInvalidCredentials
	KindEmailNotVerified
	KindNotFound
	KindAlreadyVerified
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindEmailNotVerified:
		return "email_not_verified"
	case KindNotFound:
		return "not_found"
	case KindAlreadyVerified:
		return "already_verified"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error is a domain error with a stable, caller-visible message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError builds a domain error of the given kind.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind. A target without a message
// matches every error of its kind, so errors.Is(err, ErrUnauthenticated)
// holds for each gate failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Wrap returns a copy of e carrying cause for diagnostics.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// KindOf reports the kind of err, KindInternal if it carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("unique violation")

	// Generic internal failure.
	ErrorInternal = errors.New("internal error")

	// Token issuer errors.
	ErrSigningKeyMissing = errors.New("signing key is not configured")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("token malformed")
)

// Account lifecycle errors.
var (
	ErrEmailInUse         = NewError(KindConflict, "Email in use")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "Email or password is wrong")
	ErrEmailNotVerified   = NewError(KindEmailNotVerified, "Email not verified")
	ErrUserNotFound       = NewError(KindNotFound, "User not found")
	ErrAlreadyVerified    = NewError(KindAlreadyVerified, "Verification has already been passed")
	ErrInvalidTier        = NewError(KindValidation, "Invalid subscription tier")
	ErrPasswordRequired   = NewError(KindValidation, "Password is required")
)

// Authentication gate errors. They share KindUnauthenticated and differ only
// in the diagnostic message.
var (
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
	ErrMissingCredentials   = NewError(KindUnauthenticated, "Not authorized: missing credentials")
	ErrMalformedCredentials = NewError(KindUnauthenticated, "Not authorized: malformed credentials")
	ErrTokenInvalid         = NewError(KindUnauthenticated, "Not authorized: token invalid")
	ErrSessionRevoked       = NewError(KindUnauthenticated, "Not authorized: revoked")
)

// Contact errors.
var (
	ErrContactNotFound = NewError(KindNotFound, "Not found")
	ErrContactExists   = NewError(KindConflict, "Contact with this email already exists")
	ErrEmptyUpdate     = NewError(KindValidation, "Body must have at least one field")
)
