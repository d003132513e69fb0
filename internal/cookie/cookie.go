// Package cookie computes the security attributes for the two auth
// cookies. The session cookie is httpOnly; the CSRF cookie must stay
// script-readable so the client can echo its value in the X-CSRF-Token
// header.
package cookie

import (
	"net/http"
	"time"

	"github.com/iliyamo/web-auth-service/internal/token"
)

// Cookie names used by the auth transport.
const (
	SessionName = "auth_token"
	CsrfName    = "csrf_token"
)

// Policy builds the auth cookies. Secure follows the deployment
// environment; everything else is fixed: SameSite=Lax, path "/", and a
// lifetime equal to the session token TTL.
type Policy struct {
	Secure bool
}

// Session returns the httpOnly cookie carrying the session token.
func (p Policy) Session(value string) *http.Cookie {
	return p.build(SessionName, value, true)
}

// Csrf returns the script-readable cookie carrying the CSRF token.
func (p Policy) Csrf(value string) *http.Cookie {
	return p.build(CsrfName, value, false)
}

// ClearSession returns an eviction cookie for the session token: same
// name, path and flags, empty value, and a MaxAge that net/http encodes
// as Max-Age=0 so the client deletes it immediately.
func (p Policy) ClearSession() *http.Cookie {
	c := p.build(SessionName, "", true)
	c.MaxAge = -1
	return c
}

// ClearCsrf returns an eviction cookie for the CSRF token.
func (p Policy) ClearCsrf() *http.Cookie {
	c := p.build(CsrfName, "", false)
	c.MaxAge = -1
	return c
}

func (p Policy) build(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(token.TTL / time.Second),
		HttpOnly: httpOnly,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
