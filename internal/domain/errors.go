package domain

import "errors"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidSignal  = errors.New("invalid signal")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
)
