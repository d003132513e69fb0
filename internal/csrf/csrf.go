// Package csrf implements the double-submit half of the auth contract:
// an unpredictable token is set both in a script-readable cookie and in
// the login response body, and a state-changing request is trusted only
// when the echoed header value matches the cookie value.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// tokenBytes gives 256 bits of entropy per token (64 hex characters).
const tokenBytes = 32

// Generate returns a cryptographically strong random token. It is not
// bound to the session token; matching against the caller's own cookie
// is its entire validity model.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Matches reports whether the header and cookie values agree. Both must
// be present and non-empty; the comparison is constant-time in the
// token contents.
func Matches(headerValue, cookieValue string) bool {
	if headerValue == "" || cookieValue == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(headerValue), []byte(cookieValue)) == 1
}
