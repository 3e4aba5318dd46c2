package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrDimMismatch    = errors.New("dimension mismatch")
	ErrUnknownCharset = errors.New("unknown charset")
)
