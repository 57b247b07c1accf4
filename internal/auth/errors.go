package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrInvalidView        = errors.New("invalid_view")
	ErrLoginLimited       = errors.New("login_rate_limited")
)

// LimitedError is returned when a client has spent its sign-in attempts.
type LimitedError struct {
	RetryAfter time.Duration
}

func (e *LimitedError) Error() string {
	return ErrLoginLimited.Error()
}

func (e *LimitedError) Is(target error) bool {
	return target == ErrLoginLimited
}
