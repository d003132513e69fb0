// Package service implements the auth use cases (register, login,
// logout, me) on top of the credential store and token services. It
// returns outcome values the HTTP layer renders; collaborator errors
// never propagate past it unmapped.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/web-auth-service/internal/csrf"
	"github.com/iliyamo/web-auth-service/internal/model"
	"github.com/iliyamo/web-auth-service/internal/queue"
	"github.com/iliyamo/web-auth-service/internal/repository"
	"github.com/iliyamo/web-auth-service/internal/token"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// UserStore is the slice of the credential store the facade needs.
// *repository.UserRepo satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, username, email, password string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	VerifyPassword(u model.User, candidate string) bool
}

// AuthService orchestrates the auth use cases. Events, when set, is
// invoked after successful registration and login; it runs detached and
// its failures never affect the request.
type AuthService struct {
	Users  UserStore
	Tokens *token.Service
	Events func(ctx context.Context, ev queue.AuthEvent) error
}

func NewAuthService(users UserStore, tokens *token.Service) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// LoginResult is the outcome of a successful login: the identity plus
// the two values the transport must hand to the client.
type LoginResult struct {
	User      model.PublicUser
	Token     string
	CsrfToken string
}

// Register validates the input and creates the user. Duplicates
// surface as repository.ErrDuplicateCredential; anything unexpected is
// logged here and returned as ErrInternal.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return model.PublicUser{}, &ValidationError{Message: "username, email and password are required"}
	}
	if len(password) < MinPasswordLen {
		return model.PublicUser{}, &ValidationError{Message: "password must be at least 8 characters"}
	}

	u, err := s.Users.Create(ctx, username, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCredential) {
			return model.PublicUser{}, err
		}
		log.Printf("register: create user failed: %v", err)
		return model.PublicUser{}, ErrInternal
	}

	s.publish(queue.EventUserRegistered, u)
	return u.Public(), nil
}

// Login verifies the credentials and, only on success, issues a session
// token and a CSRF token. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, &ValidationError{Message: "email and password are required"}
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		log.Printf("login: user lookup failed: %v", err)
		return LoginResult{}, ErrInternal
	}
	if !s.Users.VerifyPassword(u, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	sess, err := s.Tokens.Issue(u)
	if err != nil {
		log.Printf("login: token issue failed: %v", err)
		return LoginResult{}, ErrInternal
	}
	csrfToken, err := csrf.Generate()
	if err != nil {
		log.Printf("login: csrf generate failed: %v", err)
		return LoginResult{}, ErrInternal
	}

	s.publish(queue.EventUserLoggedIn, u)
	return LoginResult{User: u.Public(), Token: sess, CsrfToken: csrfToken}, nil
}

// Logout is stateless: there is no server-side session to invalidate,
// the caller just needs both auth cookies cleared. It always succeeds,
// no matter how many times it is called.
func (s *AuthService) Logout() string {
	return "logged out"
}

// Me returns the identity the auth guard already resolved for this
// request. A missing user means the route was wired without the guard.
func (s *AuthService) Me(u model.PublicUser, ok bool) (model.PublicUser, error) {
	if !ok {
		log.Printf("me: no authenticated user in request context")
		return model.PublicUser{}, ErrInternal
	}
	return u, nil
}

// publish emits an auth event without blocking or failing the request.
func (s *AuthService) publish(name string, u model.User) {
	if s.Events == nil {
		return
	}
	ev := queue.AuthEvent{
		Name:       name,
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		// Detached from the request context on purpose: the response
		// must not wait on the broker.
		_ = s.Events(context.Background(), ev)
	}()
}
