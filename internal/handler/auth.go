package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/web-auth-service/internal/cookie"
	"github.com/iliyamo/web-auth-service/internal/middleware"
	"github.com/iliyamo/web-auth-service/internal/model"
	"github.com/iliyamo/web-auth-service/internal/repository"
	"github.com/iliyamo/web-auth-service/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth    *service.AuthService
	Cookies cookie.Policy
}

func NewAuthHandler(auth *service.AuthService, cookies cookie.Policy) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	User    *model.PublicUser `json:"user,omitempty"`
}
type loginResp struct {
	Success   bool             `json:"success"`
	User      model.PublicUser `json:"user"`
	CsrfToken string           `json:"csrfToken"`
}

// Register creates a user. It never logs the caller in by itself; the
// client follows up with a login call.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": ve.Message})
		case errors.Is(err, repository.ErrDuplicateCredential):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "username or email already in use"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "server error"})
		}
	}
	return c.JSON(http.StatusCreated, userResp{Success: true, Message: "registration complete", User: &u})
}

// Login verifies credentials and, on success, sets the session cookie
// (httpOnly) and the CSRF cookie (script-readable), echoing the CSRF
// token in the body so the client can send it back in X-CSRF-Token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": ve.Message})
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid email or password"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "server error"})
		}
	}

	c.SetCookie(h.Cookies.Session(res.Token))
	c.SetCookie(h.Cookies.Csrf(res.CsrfToken))
	return c.JSON(http.StatusOK, loginResp{Success: true, User: res.User, CsrfToken: res.CsrfToken})
}

// Logout clears both auth cookies. There is no server-side session to
// tear down, so it succeeds no matter how many times it is called.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.Cookies.ClearSession())
	c.SetCookie(h.Cookies.ClearCsrf())
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": h.Auth.Logout()})
}

// Me returns the identity resolved by the auth guard.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.Auth.Me(middleware.CurrentUser(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "authentication required"})
	}
	return c.JSON(http.StatusOK, userResp{Success: true, User: &u})
}
