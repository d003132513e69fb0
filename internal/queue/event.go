// Package queue defines the auth event payloads published to the
// message broker and the best-effort publisher that sends them.
package queue

// Event names carried in AuthEvent.Name.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.login"
)

// AuthEvent is published after a successful registration or login. It
// contains enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database. No secret
// material is ever included.
type AuthEvent struct {
	Name       string `json:"name"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	OccurredAt string `json:"occurred_at"`
}
