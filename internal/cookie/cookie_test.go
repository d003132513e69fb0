package cookie

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/web-auth-service/internal/token"
)

func TestSessionCookie(t *testing.T) {
	t.Parallel()

	c := Policy{Secure: true}.Session("tok123")
	require.Equal(t, SessionName, c.Name)
	require.Equal(t, "tok123", c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, "/", c.Path)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	// Cookie lifetime tracks the token TTL exactly.
	require.Equal(t, int(token.TTL/time.Second), c.MaxAge)
}

func TestCsrfCookieIsScriptReadable(t *testing.T) {
	t.Parallel()

	c := Policy{}.Csrf("csrf123")
	require.Equal(t, CsrfName, c.Name)
	require.False(t, c.HttpOnly)
	require.False(t, c.Secure) // non-production policy
	require.Equal(t, "/", c.Path)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestClearCookies(t *testing.T) {
	t.Parallel()

	p := Policy{Secure: true}
	for _, c := range []*http.Cookie{p.ClearSession(), p.ClearCsrf()} {
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge) // serialized as Max-Age=0: evict now
		require.Equal(t, "/", c.Path)
		require.True(t, c.Secure)
	}
	// Clearing keeps each cookie's httpOnly flag so the browser matches
	// the original cookie.
	require.True(t, p.ClearSession().HttpOnly)
	require.False(t, p.ClearCsrf().HttpOnly)
}
