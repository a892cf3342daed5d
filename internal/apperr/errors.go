// Package apperr defines the error kinds shared by the store and its adapters.
package apperr

import "errors"

var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrRead          = errors.New("read error")
	ErrWrite         = errors.New("write error")
)
