// Package repository persists and retrieves user records. Sentinel
// errors defined here let the service and middleware layers map storage
// outcomes to HTTP responses without inspecting driver error text.
package repository

import "errors"

// ErrDuplicateCredential is returned when an insert violates the unique
// constraint on username or email. The database constraint, not a
// read-before-write check, decides the winner of concurrent
// registrations for the same credential.
var ErrDuplicateCredential = errors.New("username or email already exists")

// ErrNotFound is returned when no user row matches the lookup key.
var ErrNotFound = errors.New("user not found")
