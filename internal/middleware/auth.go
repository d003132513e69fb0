package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/web-auth-service/internal/cache"
	"github.com/iliyamo/web-auth-service/internal/cookie"
	"github.com/iliyamo/web-auth-service/internal/csrf"
	"github.com/iliyamo/web-auth-service/internal/model"
	"github.com/iliyamo/web-auth-service/internal/repository"
	"github.com/iliyamo/web-auth-service/internal/token"
)

// UserResolver re-materializes a user from a verified token subject.
// *repository.UserRepo satisfies it.
type UserResolver interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// userKey is the context key under which AuthGuard stores the resolved
// user. Handlers go through CurrentUser instead of touching it.
const userKey = "auth.user"

// CurrentUser returns the authenticated, password-stripped user that
// AuthGuard attached to the request context.
func CurrentUser(c echo.Context) (model.PublicUser, bool) {
	u, ok := c.Get(userKey).(model.PublicUser)
	return u, ok
}

// AuthGuard returns middleware enforcing the session contract on
// protected routes:
//
//  1. the auth_token cookie must be present;
//  2. state-changing methods (POST/PUT/PATCH/DELETE) must pass the
//     double-submit CSRF check — X-CSRF-Token header against the
//     csrf_token cookie — before the session token is even looked at;
//  3. the session token must verify (signature and expiry);
//  4. the token subject must still exist in storage, since a stateless
//     token cannot know its user was deleted after issuance.
//
// Every rejection is terminal for the request: CSRF failures map to
// 403, everything else to 401. On success the resolved user is attached
// to the request context for downstream handlers.
func AuthGuard(tokens *token.Service, users UserResolver, userCache *cache.UserCache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := c.Cookie(cookie.SessionName)
			if err != nil || sess.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "authentication required"})
			}

			if isUnsafe(c.Request().Method) {
				header := c.Request().Header.Get(echo.HeaderXCSRFToken)
				var cookieVal string
				if ck, err := c.Cookie(cookie.CsrfName); err == nil {
					cookieVal = ck.Value
				}
				if !csrf.Matches(header, cookieVal) {
					return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "csrf token mismatch"})
				}
			}

			claims, err := tokens.Verify(sess.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid or expired session"})
			}
			id, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid or expired session"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			pub, ok := userCache.Get(ctx, id)
			if !ok {
				u, err := users.GetByID(ctx, id)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "user no longer exists"})
					}
					log.Printf("auth guard: user lookup failed: %v", err)
					return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "server error"})
				}
				pub = u.Public()
				userCache.Set(ctx, pub)
			}

			c.Set(userKey, pub)
			return next(c)
		}
	}
}

// isUnsafe reports whether the method can change server state and so
// requires the CSRF double-submit check.
func isUnsafe(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
