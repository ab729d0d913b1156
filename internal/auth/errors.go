package auth

import "errors"

// Authentication errors. All of them map to 401 Unauthorized.
var (
	ErrMissingAuthHeader     = errors.New("Missing auth header")
	ErrMalformedAuthHeader   = errors.New("Invalid auth header format")
	ErrInvalidOrExpiredToken = errors.New("Invalid or expired token")
)

// IsAuthError reports whether err is one of the authentication errors.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingAuthHeader) ||
		errors.Is(err, ErrMalformedAuthHeader) ||
		errors.Is(err, ErrInvalidOrExpiredToken)
}

// Reason returns a short machine-friendly label for logging and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		return "missing_header"
	case errors.Is(err, ErrMalformedAuthHeader):
		return "malformed_header"
	case errors.Is(err, ErrInvalidOrExpiredToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}

// Message returns the client-facing text for an authentication error,
// without any wrapped cause from the identity service.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		return ErrMissingAuthHeader.Error()
	case errors.Is(err, ErrMalformedAuthHeader):
		return ErrMalformedAuthHeader.Error()
	default:
		return ErrInvalidOrExpiredToken.Error()
	}
}

// VerificationError reports that the identity service could not be asked
// about a token. Clients still see ErrInvalidOrExpiredToken.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return ErrInvalidOrExpiredToken.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both ErrInvalidOrExpiredToken and the underlying cause.
func (e *VerificationError) Unwrap() []error {
	return []error{ErrInvalidOrExpiredToken, e.Err}
}
