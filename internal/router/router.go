// Package router defines how HTTP routes are registered for the API.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/web-auth-service/internal/cache"
	"github.com/iliyamo/web-auth-service/internal/handler"
	"github.com/iliyamo/web-auth-service/internal/middleware"
	"github.com/iliyamo/web-auth-service/internal/token"
)

// Register wires all routes on the provided Echo instance. Public auth
// operations live under /auth; guard-protected endpoints live under
// /api so the auth guard covers every route added there later.
func Register(e *echo.Echo, a *handler.AuthHandler, tokens *token.Service, users middleware.UserResolver, userCache *cache.UserCache, corsOrigin string) {
	// Credentialed CORS for the browser frontend. The CSRF header must
	// be allowed or the double-submit echo never reaches the guard.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXCSRFToken},
		AllowCredentials: true,
	}))

	e.GET("/healthz", handler.Health)

	// Routes that establish or discard a session; no guard applies.
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	// Everything under /api requires an authenticated session.
	api := e.Group("/api")
	api.Use(middleware.AuthGuard(tokens, users, userCache))
	api.GET("/auth/me", a.Me)
}
