package history

import "errors"

// Sentinel errors for practice history operations.
var (
	// ErrPersistence matches every datastore failure.
	ErrPersistence = errors.New("persistence error")

	// ErrMissingUser means the caller was not authenticated before writing.
	ErrMissingUser = errors.New("authenticated user is required")
)

// PersistenceError carries the datastore's own message.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the underlying datastore error.
func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

func persistenceError(err error) *PersistenceError {
	return &PersistenceError{Message: err.Error(), Err: err}
}
