package service

import "errors"

// ValidationError reports user-correctable input problems. The message
// is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrInvalidCredentials deliberately covers both unknown email and
// wrong password so login responses cannot be used to enumerate
// registered accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInternal replaces unexpected storage or signing failures after the
// detail has been logged. Clients only ever see a generic message.
var ErrInternal = errors.New("internal error")
