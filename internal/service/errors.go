package service

import "errors"

var (
	// ErrValidation is returned when input is malformed or out of range.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the acting user may not perform the
	// requested transition.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDuplicateRelationship is returned when a connection already exists
	// for the pair, in any status and either direction.
	ErrDuplicateRelationship = errors.New("relationship already exists")
	// ErrStorage wraps persistence failures. These are transient; callers
	// may retry with backoff, the service itself never retries.
	ErrStorage = errors.New("storage failure")
)

// tagged returns err untouched when it already carries one of the taxonomy
// sentinels, and wraps anything else as a storage failure so raw store
// errors never reach the caller.
func tagged(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrValidation, ErrNotFound, ErrUnauthorized, ErrDuplicateRelationship, ErrStorage} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return errors.Join(ErrStorage, err)
}
