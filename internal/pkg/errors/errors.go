package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
